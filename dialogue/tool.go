package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// DefaultDialogueSystemPromptTemplate is filled with the reply language.
const DefaultDialogueSystemPromptTemplate = `You are a friendly form assistant. Rewrite the next message of a form-filling conversation so it sounds natural.

Rules:
- Keep every question and every listed option. Options and their numbers must stay exactly as written, one per line.
- If there is feedback on the user's answer, mention it briefly before the question.
- Do not invent options, values or questions.
- Reply in %s.
`

const defaultLang = "English"

// ToolBasedDialogueGenerator rewrites the form's text into a friendlier
// message with a chat model.
type ToolBasedDialogueGenerator struct {
	chatModel    model.BaseChatModel
	lang         string
	template     string
	systemPrompt string
}

type GeneratorOption func(*ToolBasedDialogueGenerator)

func WithDialogueLang(lang string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		g.lang = lang
	}
}

// WithDialogueSystemPrompt replaces the system prompt outright; the language
// option is ignored.
func WithDialogueSystemPrompt(systemPrompt string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		g.systemPrompt = systemPrompt
	}
}

// WithDialogueSystemPromptTemplate replaces the template. A "%s" in it is
// filled with the language.
func WithDialogueSystemPromptTemplate(tpl string) GeneratorOption {
	return func(g *ToolBasedDialogueGenerator) {
		g.template = tpl
	}
}

func NewToolBasedDialogueGenerator(chatModel model.BaseChatModel, opts ...GeneratorOption) *ToolBasedDialogueGenerator {
	g := &ToolBasedDialogueGenerator{chatModel: chatModel}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.lang == "" {
		g.lang = defaultLang
	}
	if g.template == "" {
		g.template = DefaultDialogueSystemPromptTemplate
	}
	if g.systemPrompt == "" {
		g.systemPrompt = g.template
		if strings.Contains(g.template, "%s") {
			g.systemPrompt = fmt.Sprintf(g.template, g.lang)
		}
	}
	return g
}

func (g *ToolBasedDialogueGenerator) messages(req *Request) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(formatRequest(req)),
	}
}

func (g *ToolBasedDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	if req.Text() == "" {
		return "", nil
	}
	response, err := g.chatModel.Generate(ctx, g.messages(req))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return response.Content, nil
}

func (g *ToolBasedDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *Request) (*schema.StreamReader[string], error) {
	stream, err := g.chatModel.Stream(ctx, g.messages(req))
	if err != nil {
		return nil, fmt.Errorf("LLM stream call failed: %w", err)
	}
	return schema.StreamReaderWithConvert(stream, func(message *schema.Message) (string, error) {
		return message.Content, nil
	}), nil
}
