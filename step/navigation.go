package step

import (
	"context"
	"fmt"

	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

var _ Interactive[any] = (*NavigationStep[any])(nil)

// NavigationName is the name of the step that asks which answer to change.
const NavigationName = "Navigation"

// NavigationStep offers the eligible fields by name. Each option is shown
// through the field's own navigation template.
type NavigationStep[T any] struct {
	name       string
	recognizer *recognize.Enumeration
}

func NewNavigationStep[T any](ctx context.Context, model T, fields []field.Field[T]) (*NavigationStep[T], error) {
	names := make([]any, 0, len(fields))
	display := make(map[string]string, len(fields))
	terms := make(map[string][]string, len(fields))
	for _, f := range fields {
		text, err := render(ctx, f.Template(prompt.UsageNavigationFormat), nil, f.Vars(model), nil)
		if err != nil {
			return nil, fmt.Errorf("navigation %s: %w", f.Name(), err)
		}
		names = append(names, f.Name())
		display[f.Name()] = text
		terms[f.Name()] = append([]string{recognize.Normalize(f.Name())}, f.Terms()...)
	}
	r := recognize.NewEnumeration(names,
		recognize.WithDescriber(func(value any) string {
			return display[fmt.Sprint(value)]
		}),
		recognize.WithTerms(func(value any) []string {
			return terms[fmt.Sprint(value)]
		}),
		recognize.WithNumbers(prompt.Default(prompt.UsageNavigation).AllowNumbers),
	)
	return &NavigationStep[T]{name: NavigationName, recognizer: r}, nil
}

func (s *NavigationStep[T]) Name() string {
	return s.name
}

func (s *NavigationStep[T]) Kind() Kind {
	return KindNavigation
}

func (s *NavigationStep[T]) Active(model T) bool {
	return true
}

func (s *NavigationStep[T]) Dependencies() []string {
	return nil
}

func (s *NavigationStep[T]) Start(ctx context.Context, model T, form FormState) (FormState, string, error) {
	text, err := render(ctx, prompt.Default(prompt.UsageNavigation), s.recognizer, nil, nil)
	if err != nil {
		return form, "", err
	}
	out := form.Clone()
	out.Phase = types.StepResponding
	out.Field = nil
	out.Next = nil
	return out, text, nil
}

func (s *NavigationStep[T]) Match(ctx context.Context, model T, form FormState, input string) ([]types.TermMatch, error) {
	return s.recognizer.Matches(ctx, input, nil)
}

func (s *NavigationStep[T]) Process(ctx context.Context, model *T, form FormState, input string, matches []types.TermMatch) (FormState, Result, error) {
	if len(matches) == 0 {
		return form, Result{}, fmt.Errorf("navigation: %w", ErrNoMatch)
	}
	name := fmt.Sprint(matches[0].Value)
	out := form.Clone()
	out.Phase = types.StepCompleted
	out.Next = []string{name}
	next := types.Named(name)
	return out, Result{Next: &next}, nil
}

// Back drops the navigation target so the default order applies again.
func (s *NavigationStep[T]) Back(model *T, form FormState) (FormState, bool, error) {
	out := form.Clone()
	out.Next = nil
	return out, false, nil
}

func (s *NavigationStep[T]) Help(ctx context.Context, model T, form FormState, commands string) (string, error) {
	return asBullet(render(ctx, prompt.Default(prompt.UsageHelpNavigation), s.recognizer, nil, prompt.Vars{
		prompt.VarHelp:     bullet(s.recognizer.Help(nil)),
		prompt.VarCommands: commands,
	}))
}

func (s *NavigationStep[T]) NotUnderstood(ctx context.Context, model T, form FormState, input string) (string, error) {
	return render(ctx, prompt.Default(prompt.UsageNotUnderstood), nil, nil, prompt.Vars{
		prompt.VarInput: input,
	})
}
