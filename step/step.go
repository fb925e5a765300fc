package step

import (
	"context"
	"errors"
	"maps"

	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

var (
	// ErrNoStepState is returned when an operation needs step state that the
	// form does not carry, such as Help before Start.
	ErrNoStepState = errors.New("step has no active state")
	// ErrNoMatch is returned by steps that cannot process an empty match list.
	ErrNoMatch = errors.New("no match to process")
)

type Kind string

const (
	KindField      Kind = "field"
	KindConfirm    Kind = "confirm"
	KindNavigation Kind = "navigation"
	KindMessage    Kind = "message"
)

// Step is a unit of the conversation. Every step can be started; only
// Interactive steps take replies.
type Step[T any] interface {
	Name() string
	Kind() Kind
	Active(model T) bool
	// Start returns the state to ask the step with and the text to show.
	Start(ctx context.Context, model T, form FormState) (FormState, string, error)
}

type Interactive[T any] interface {
	Step[T]
	Match(ctx context.Context, model T, form FormState, input string) ([]types.TermMatch, error)
	// Process consumes the matches of input. model is only written when the
	// returned error is nil.
	Process(ctx context.Context, model *T, form FormState, input string, matches []types.TermMatch) (FormState, Result, error)
	NotUnderstood(ctx context.Context, model T, form FormState, input string) (string, error)
	// Back undoes the step's own progress. It reports false when there was
	// nothing to undo inside the step.
	Back(model *T, form FormState) (FormState, bool, error)
	Help(ctx context.Context, model T, form FormState, commands string) (string, error)
	Dependencies() []string
}

// Result is the output of one Process call.
type Result struct {
	// Next is set once the step completed.
	Next     *types.NextStep
	Feedback string
	Prompt   string
}

func render(ctx context.Context, t prompt.Template, r recognize.Recognizer, base prompt.Vars, extra prompt.Vars) (string, error) {
	vars := make(prompt.Vars, len(base)+len(extra))
	maps.Copy(vars, base)
	maps.Copy(vars, extra)
	return prompt.NewPrompter(t, r).Render(ctx, vars)
}

// asBullet prefixes rendered help so it reads as a single bullet entry.
func asBullet(text string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return bullet(text), nil
}

func bullet(help string) string {
	if help == "" {
		return ""
	}
	return "* " + help
}
