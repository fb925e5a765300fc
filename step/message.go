package step

import (
	"context"
	"fmt"

	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/types"
)

var _ Step[any] = (*MessageStep[any])(nil)

// MessageStep shows a message and completes at once. It takes no replies.
type MessageStep[T any] struct {
	name     string
	template prompt.Template
	active   func(model T) bool
	vars     func(model T) prompt.Vars
}

// NewMessageStep builds a message step. A nil active shows the message always.
func NewMessageStep[T any](name, pattern string, active func(model T) bool) *MessageStep[T] {
	return &MessageStep[T]{
		name:     name,
		template: prompt.Template{Usage: prompt.UsagePrompt, Pattern: pattern, Feedback: types.FeedbackAuto},
		active:   active,
	}
}

// WithVars sets the variables the message is rendered with.
func (s *MessageStep[T]) WithVars(vars func(model T) prompt.Vars) *MessageStep[T] {
	s.vars = vars
	return s
}

func (s *MessageStep[T]) Name() string {
	return s.name
}

func (s *MessageStep[T]) Kind() Kind {
	return KindMessage
}

func (s *MessageStep[T]) Active(model T) bool {
	return s.active == nil || s.active(model)
}

func (s *MessageStep[T]) Start(ctx context.Context, model T, form FormState) (FormState, string, error) {
	var vars prompt.Vars
	if s.vars != nil {
		vars = s.vars(model)
	}
	text, err := render(ctx, s.template, nil, vars, nil)
	if err != nil {
		return form, "", fmt.Errorf("message %s: %w", s.name, err)
	}
	out := form.Clone()
	out.Phase = types.StepCompleted
	out.Field = nil
	return out, text, nil
}
