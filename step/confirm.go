package step

import (
	"context"
	"fmt"

	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/types"
)

var _ Interactive[any] = (*ConfirmStep[any])(nil)

// ConfirmStep asks a yes/no question about answers given earlier. A "no"
// leaves the step Ready so the driver can offer the answers for change.
type ConfirmStep[T any] struct {
	field field.Field[T]
}

func NewConfirmStep[T any](f field.Field[T]) *ConfirmStep[T] {
	return &ConfirmStep[T]{field: f}
}

func (s *ConfirmStep[T]) Name() string {
	return s.field.Name()
}

func (s *ConfirmStep[T]) Kind() Kind {
	return KindConfirm
}

func (s *ConfirmStep[T]) Active(model T) bool {
	return s.field.Active(model)
}

func (s *ConfirmStep[T]) Dependencies() []string {
	return s.field.Dependencies()
}

func (s *ConfirmStep[T]) Start(ctx context.Context, model T, form FormState) (FormState, string, error) {
	text, err := render(ctx, s.field.Template(prompt.UsagePrompt), nil, s.field.Vars(model), nil)
	if err != nil {
		return form, "", fmt.Errorf("confirm %s: %w", s.Name(), err)
	}
	out := form.Clone()
	out.Phase = types.StepResponding
	out.Field = nil
	return out, text, nil
}

func (s *ConfirmStep[T]) Match(ctx context.Context, model T, form FormState, input string) ([]types.TermMatch, error) {
	return s.field.Recognizer().Matches(ctx, input, nil)
}

func (s *ConfirmStep[T]) Process(ctx context.Context, model *T, form FormState, input string, matches []types.TermMatch) (FormState, Result, error) {
	if len(matches) == 0 {
		return form, Result{}, fmt.Errorf("confirm %s: %w", s.Name(), ErrNoMatch)
	}
	confirmed, ok := matches[0].Value.(bool)
	if !ok {
		return form, Result{}, fmt.Errorf("confirm %s: expected a bool match, got %T", s.Name(), matches[0].Value)
	}
	if err := s.field.SetValue(model, confirmed); err != nil {
		return form, Result{}, err
	}
	out := form.Clone()
	if !confirmed {
		out.Phase = types.StepReady
		return out, Result{}, nil
	}
	out.Phase = types.StepCompleted
	next := s.field.Next(confirmed, *model)
	return out, Result{Next: &next}, nil
}

func (s *ConfirmStep[T]) Back(model *T, form FormState) (FormState, bool, error) {
	return form, false, nil
}

func (s *ConfirmStep[T]) Help(ctx context.Context, model T, form FormState, commands string) (string, error) {
	r := s.field.Recognizer()
	return asBullet(render(ctx, s.field.Template(prompt.UsageHelpConfirm), nil, s.field.Vars(model), prompt.Vars{
		prompt.VarHelp:     bullet(r.Help(nil)),
		prompt.VarCommands: commands,
	}))
}

func (s *ConfirmStep[T]) NotUnderstood(ctx context.Context, model T, form FormState, input string) (string, error) {
	return render(ctx, s.field.Template(prompt.UsageNotUnderstood), nil, s.field.Vars(model), prompt.Vars{
		prompt.VarInput: input,
		prompt.VarField: "",
	})
}
