package prompt

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/recognize"
)

type Vars map[string]any

var spaceRun = regexp.MustCompile(`[ \t]+`)

// Prompter renders a template. When a recognizer with a fixed set of values
// is attached, the {choices} variable lists them.
type Prompter struct {
	template   Template
	recognizer recognize.Recognizer
}

func NewPrompter(template Template, recognizer recognize.Recognizer) *Prompter {
	return &Prompter{template: template, recognizer: recognizer}
}

func (p *Prompter) Template() Template {
	return p.template
}

func (p *Prompter) Recognizer() recognize.Recognizer {
	return p.recognizer
}

func (p *Prompter) Render(ctx context.Context, vars Vars) (string, error) {
	values := make(map[string]any, len(knownVars)+len(vars))
	for _, key := range knownVars {
		values[key] = ""
	}
	if p.recognizer != nil {
		values[VarChoices] = Choices(p.recognizer, p.template.AllowNumbers)
	}
	for key, value := range vars {
		values[key] = value
	}
	msgs, err := schema.UserMessage(p.template.Pattern).Format(ctx, values, schema.FString)
	if err != nil {
		return "", fmt.Errorf("render %s template: %w", p.template.Usage, err)
	}
	if len(msgs) == 0 {
		return "", nil
	}
	return tidy(msgs[0].Content), nil
}

// Choices lists the values of r, one per line.
func Choices(r recognize.Recognizer, numbered bool) string {
	values := r.Values()
	lines := make([]string, 0, len(values))
	for i, value := range values {
		if numbered {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, r.ValueDescription(value)))
		} else {
			lines = append(lines, "- "+r.ValueDescription(value))
		}
	}
	return strings.Join(lines, "\n")
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(spaceRun.ReplaceAllString(line, " "), " ")
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
