package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/structured"
)

const (
	parseCommandToolName        = "parse_command_intent"
	parseCommandToolDescription = "Analyze the user's answer and determine whether it is a command: back, help, quit, status, reset, or none."
)

// DefaultCommandSystemPromptTemplate is the default system prompt of
// ToolBasedCommandParser. It may contain a single "%s" placeholder for the tool name.
const DefaultCommandSystemPromptTemplate = `You are an assistant for a form-filling robot. The robot asked the user a question and the user answered.

Decide whether the answer is a command about the conversation itself rather than an answer to the question.

IMPORTANT: Always read the question together with the answer. An answer that could be a value for the question is never a command.

Choose exactly one intent:
- back: the user wants to undo or change their previous answer.
- help: the user asks what they can answer or how the form works.
- quit: the user explicitly wants to abandon the form.
- status: the user asks what has been filled in so far.
- reset: the user wants to start the whole form over.
- none: anything else, including every answer to the question.

Call the '%s' tool with the result.`

type parseCommandInput struct {
	Intent Command `json:"intent" jsonschema:"required,enum=back,enum=help,enum=quit,enum=status,enum=reset,enum=none,description=The user's command intent"`
}

type parserOptions struct {
	systemPromptTemplate string
}

type ParserOption func(*parserOptions)

func WithCommandSystemPromptTemplate(tpl string) ParserOption {
	return func(o *parserOptions) {
		o.systemPromptTemplate = tpl
	}
}

type ToolBasedCommandParser struct {
	chain *structured.Chain[*Request, parseCommandInput]
}

func NewToolBasedCommandParser(chatModel model.ToolCallingChatModel, opts ...ParserOption) (*ToolBasedCommandParser, error) {
	options := parserOptions{systemPromptTemplate: DefaultCommandSystemPromptTemplate}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := options.systemPromptTemplate
	if strings.Contains(systemPrompt, "%s") {
		systemPrompt = fmt.Sprintf(systemPrompt, parseCommandToolName)
	}
	chain, err := structured.NewChain[*Request, parseCommandInput](
		chatModel,
		func(ctx context.Context, req *Request) ([]*schema.Message, error) {
			return []*schema.Message{
				schema.SystemMessage(systemPrompt),
				schema.UserMessage(fmt.Sprintf("# Question:\n%s\n\n# Answer:\n%s", req.Question, req.Answer)),
			}, nil
		},
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedCommandParser{chain: chain}, nil
}

func (p *ToolBasedCommandParser) ParseCommand(ctx context.Context, req *Request) (Command, error) {
	result, err := p.chain.Invoke(ctx, req)
	if err != nil {
		return None, err
	}
	if result == nil || result.Intent == "" {
		return None, fmt.Errorf("empty intent returned by %s", parseCommandToolName)
	}
	return result.Intent, nil
}
