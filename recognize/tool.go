package recognize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/structured"
	"github.com/tbxark/formdialog/types"
)

const (
	recognizeToolName        = "select_options"
	recognizeToolDescription = "Select every option the user's answer refers to, quoting the exact words of the answer that refer to each option."
)

// DefaultRecognizeSystemPromptTemplate is the default system prompt used by
// ToolBased. The template may contain a single "%s" placeholder for the tool name.
const DefaultRecognizeSystemPromptTemplate = `You map a user's free-text answer onto a fixed list of options for a form field.

Rules:
- Only select options the answer clearly refers to. If a phrase could mean several options, select all of them and quote the same words for each.
- "text" must be copied verbatim from the user's answer.
- confidence is between 0 and 1.
- If nothing in the answer refers to any option, return an empty list.

Call the '%s' tool with the result.`

type toolMatch struct {
	Index      int     `json:"index" jsonschema:"required,description=Index of the selected option in the option table"`
	Text       string  `json:"text" jsonschema:"required,description=Exact words of the user answer that refer to the option"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"description=Confidence between 0 and 1"`
}

type toolOutput struct {
	Matches []toolMatch `json:"matches" jsonschema:"required,description=Options the answer refers to"`
}

type toolRequest struct {
	field   string
	input   string
	options []string
}

type toolOptions struct {
	field                string
	systemPromptTemplate string
}

type ToolOption func(*toolOptions)

// WithToolFieldName names the field in the prompt sent to the model.
func WithToolFieldName(name string) ToolOption {
	return func(o *toolOptions) {
		o.field = name
	}
}

func WithToolSystemPromptTemplate(tpl string) ToolOption {
	return func(o *toolOptions) {
		o.systemPromptTemplate = tpl
	}
}

// ToolBased asks a chat model which of base's values an answer refers to.
// Open-ended recognizers (no Values) are queried directly.
type ToolBased struct {
	base  Recognizer
	field string
	chain *structured.Chain[*toolRequest, toolOutput]
}

func NewToolBased(chatModel model.ToolCallingChatModel, base Recognizer, opts ...ToolOption) (*ToolBased, error) {
	options := toolOptions{systemPromptTemplate: DefaultRecognizeSystemPromptTemplate}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	systemPrompt := options.systemPromptTemplate
	if strings.Contains(systemPrompt, "%s") {
		systemPrompt = fmt.Sprintf(systemPrompt, recognizeToolName)
	}
	chain, err := structured.NewChain[*toolRequest, toolOutput](
		chatModel,
		func(ctx context.Context, req *toolRequest) ([]*schema.Message, error) {
			return buildRecognizePrompt(systemPrompt, req), nil
		},
		recognizeToolName,
		recognizeToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBased{base: base, field: options.field, chain: chain}, nil
}

func buildRecognizePrompt(systemPrompt string, req *toolRequest) []*schema.Message {
	sections := make([]string, 0, 3)
	if req.field != "" {
		sections = append(sections, fmt.Sprintf("# Field:\n%s", req.field))
	}
	sections = append(sections,
		fmt.Sprintf("# Options:\n%s", types.FormatOptions(req.options)),
		fmt.Sprintf("# User Answer:\n%s", req.input),
	)
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}
}

func (t *ToolBased) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	values := t.base.Values()
	if len(values) == 0 || strings.TrimSpace(input) == "" {
		return t.base.Matches(ctx, input, current)
	}
	options := make([]string, len(values))
	for i, value := range values {
		options[i] = t.base.ValueDescription(value)
	}
	slog.Debug("Recognizing with model", "field", t.field, "options", len(options))
	result, err := t.chain.Invoke(ctx, &toolRequest{field: t.field, input: input, options: options})
	if err != nil {
		return nil, fmt.Errorf("recognize %q: %w", t.field, err)
	}

	matches := make([]types.TermMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		if m.Index < 0 || m.Index >= len(values) {
			slog.Debug("Dropping out of range option", "field", t.field, "index", m.Index)
			continue
		}
		start, length := 0, len(input)
		if idx, n, ok := indexFold(input, strings.TrimSpace(m.Text)); ok {
			start, length = idx, n
		}
		confidence := m.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 1
		}
		matches = append(matches, types.TermMatch{
			Start:      start,
			Length:     length,
			Value:      values[m.Index],
			Confidence: confidence,
		})
	}
	return matches, nil
}

// indexFold finds the first case-insensitive occurrence of text in s and
// returns its byte span within s.
func indexFold(s, text string) (int, int, bool) {
	if text == "" {
		return 0, 0, false
	}
	for i := range s {
		j, k := i, 0
		for j < len(s) && k < len(text) {
			a, na := utf8.DecodeRuneInString(s[j:])
			b, nb := utf8.DecodeRuneInString(text[k:])
			if a != b && !strings.EqualFold(s[j:j+na], text[k:k+nb]) {
				break
			}
			j, k = j+na, k+nb
		}
		if k == len(text) {
			return i, j - i, true
		}
	}
	return 0, 0, false
}

func (t *ToolBased) Help(current any) string {
	return t.base.Help(current)
}

func (t *ToolBased) ValidInputs(value any) []string {
	return t.base.ValidInputs(value)
}

func (t *ToolBased) ValueDescription(value any) string {
	return t.base.ValueDescription(value)
}

func (t *ToolBased) Values() []any {
	return t.base.Values()
}
