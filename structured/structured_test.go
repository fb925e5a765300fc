package structured

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderRequest struct {
	Text string
}

type orderExtraction struct {
	Bread    string   `json:"bread" jsonschema:"description=Bread type,enum=white,enum=wheat,enum=rye"`
	Length   int      `json:"length" jsonschema:"description=Length in inches,enum=6,enum=12"`
	Toppings []string `json:"toppings" jsonschema:"description=Requested toppings,uniqueItems=true"`
}

func buildOrderPrompt(ctx context.Context, input orderRequest) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage("Extract the sandwich order by calling the extract_order tool."),
		schema.UserMessage(input.Text),
	}, nil
}

type fakeChatModel struct {
	response *schema.Message
	chunks   []*schema.Message
	err      error
	tools    []*schema.ToolInfo
	options  *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.options = model.GetCommonOptions(nil, opts...)
	return f.response, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.options = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return schema.StreamReaderFromArray(f.chunks), nil
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

func toolCall(name, arguments string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       "call_1",
			Function: schema.FunctionCall{Name: name, Arguments: arguments},
		}},
	}
}

func TestChainInvoke(t *testing.T) {
	fake := &fakeChatModel{response: toolCall("extract_order", `{"bread":"rye","length":12,"toppings":["onion","lettuce"]}`)}
	chain, err := NewChain[orderRequest, orderExtraction](fake, buildOrderPrompt, "extract_order", "Extract a sandwich order")
	require.NoError(t, err)

	got, err := chain.Invoke(context.Background(), orderRequest{Text: "a footlong on rye with onion and lettuce"})
	require.NoError(t, err)
	want := &orderExtraction{Bread: "rye", Length: 12, Toppings: []string{"onion", "lettuce"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extraction mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, fake.tools, 1)
	assert.Equal(t, "extract_order", fake.tools[0].Name)
	assert.Same(t, fake.tools[0], chain.Tool())
	require.NotNil(t, fake.options.ToolChoice)
	assert.Equal(t, schema.ToolChoiceForced, *fake.options.ToolChoice)
}

func TestChainStream(t *testing.T) {
	chunk := func(args string) *schema.Message {
		idx := 0
		return &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{{
				Index:    &idx,
				Function: schema.FunctionCall{Arguments: args},
			}},
		}
	}
	first := chunk(`{"bread":"wheat",`)
	first.ToolCalls[0].ID = "call_1"
	first.ToolCalls[0].Function.Name = "extract_order"
	fake := &fakeChatModel{chunks: []*schema.Message{first, chunk(`"length":6}`)}}
	chain, err := NewChain[orderRequest, orderExtraction](fake, buildOrderPrompt, "extract_order", "Extract a sandwich order")
	require.NoError(t, err)

	got, err := chain.Stream(context.Background(), orderRequest{Text: "six inch wheat"})
	require.NoError(t, err)
	assert.Equal(t, orderExtraction{Bread: "wheat", Length: 6}, *got)
}

func TestChainErrors(t *testing.T) {
	_, err := NewChain[orderRequest, orderExtraction](nil, buildOrderPrompt, "extract_order", "")
	assert.Error(t, err)
	_, err = NewChain[orderRequest, orderExtraction](&fakeChatModel{}, nil, "extract_order", "")
	assert.Error(t, err)

	fake := &fakeChatModel{err: errors.New("boom")}
	chain, err := NewChain[orderRequest, orderExtraction](fake, buildOrderPrompt, "extract_order", "")
	require.NoError(t, err)
	_, err = chain.Invoke(context.Background(), orderRequest{})
	assert.ErrorContains(t, err, "boom")

	fake.err = nil
	fake.response = schema.AssistantMessage("I think rye", nil)
	_, err = chain.Invoke(context.Background(), orderRequest{})
	assert.ErrorIs(t, err, ErrNoToolCall)

	fake.response = toolCall("extract_order", `{"length":"long"}`)
	_, err = chain.Invoke(context.Background(), orderRequest{})
	assert.ErrorContains(t, err, "decode extract_order arguments")
}

func TestDecodePrefersNamedTool(t *testing.T) {
	msg := toolCall("other", `{"bread":"white"}`)
	msg.ToolCalls = append(msg.ToolCalls, schema.ToolCall{
		ID:       "call_2",
		Function: schema.FunctionCall{Name: "extract_order", Arguments: `{"bread":"wheat"}`},
	})
	got, err := Decode[orderExtraction](msg, "extract_order")
	require.NoError(t, err)
	assert.Equal(t, "wheat", got.Bread)

	_, err = Decode[orderExtraction](nil, "extract_order")
	assert.ErrorIs(t, err, ErrNoToolCall)
}

func TestChainLive(t *testing.T) {
	if os.Getenv("FORMDIALOG_RUN_LIVE_TESTS") != "1" {
		t.Skip("set FORMDIALOG_RUN_LIVE_TESTS=1 to run live LLM tests")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY is not set")
	}
	modelName := os.Getenv("OPENAI_MODEL")
	if modelName == "" {
		modelName = "gpt-4o"
	}
	ctx := context.Background()
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
	require.NoError(t, err)
	chain, err := NewChain[orderRequest, orderExtraction](chatModel, buildOrderPrompt, "extract_order", "Extract a sandwich order")
	require.NoError(t, err)

	for _, text := range []string{
		"Can I get a six inch wheat with tomato?",
		"footlong, rye bread, onions, lettuce and peppers please",
	} {
		result, err := chain.Invoke(ctx, orderRequest{Text: text})
		if err != nil {
			t.Errorf("invoke failed: %v", err)
			continue
		}
		t.Logf("%s => %+v", text, result)
	}
}
