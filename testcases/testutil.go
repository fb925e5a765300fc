package testcases

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/formdialog/agent"
)

type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := sonic.Unmarshal(file, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("FORMDIALOG_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FORMDIALOG_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}
	conf, err := loadConfig("../config.json")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.APIKey == "" {
		t.Skip("config.json api_key is empty")
		return nil
	}
	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

// NewTestFlow builds the order flow with local recognizers and commands.
func NewTestFlow(t *testing.T, opts ...agent.Option[Order]) *agent.FormFlow[Order] {
	t.Helper()
	form, err := NewOrderForm(nil)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	flow, err := agent.NewFormFlow(form, opts...)
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	return flow
}

// Chat is one conversation against a flow.
type Chat struct {
	t       *testing.T
	flow    *agent.FormFlow[Order]
	Session *agent.Session[Order]
}

func NewChat(t *testing.T, flow *agent.FormFlow[Order]) (*Chat, string) {
	t.Helper()
	c := &Chat{t: t, flow: flow}
	return c, c.Say("")
}

func (c *Chat) Say(input string) string {
	c.t.Helper()
	resp, err := c.flow.Invoke(context.Background(), &agent.Request[Order]{Session: c.Session, UserInput: input})
	if err != nil {
		c.t.Fatalf("turn %q failed: %v", input, err)
	}
	c.Session = resp.Session
	c.t.Logf("user: %s\nform: %s", input, resp.Message)
	return resp.Message
}

// Expect fails the test unless text contains every part.
func Expect(t *testing.T, text string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(text, part) {
			t.Errorf("expected %q in reply:\n%s", part, text)
		}
	}
}
