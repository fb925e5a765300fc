package step

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

type sandwich struct {
	Topping   string   `json:"topping,omitempty"`
	Toppings  []string `json:"toppings,omitempty"`
	Vegetable string   `json:"vegetable,omitempty"`
}

var vegetables = []any{"onion", "pepper", "sweet-potato", "sweet-corn", "red-pepper", "green-pepper"}

func vegetableField(name string, multiple bool, opts ...field.Option[sandwich]) *field.JSONField[sandwich] {
	base := []field.Option[sandwich]{
		field.WithPointer[sandwich]("/" + name),
		field.WithMultiple[sandwich](multiple),
		field.WithRecognizer[sandwich](recognize.NewEnumeration(vegetables, recognize.WithMultiple(multiple))),
	}
	return field.New[sandwich](name, append(base, opts...)...)
}

// turn runs Match and Process for one reply.
func turn[T any](t *testing.T, s Interactive[T], model *T, form FormState, input string) (FormState, Result) {
	t.Helper()
	ctx := context.Background()
	matches, err := s.Match(ctx, *model, form, input)
	require.NoError(t, err)
	out, result, err := s.Process(ctx, model, form, input, matches)
	require.NoError(t, err)
	return out, result
}

func started[T any](t *testing.T, s Step[T], model T) (FormState, string) {
	t.Helper()
	form, text, err := s.Start(context.Background(), model, FormState{Phase: types.StepReady})
	require.NoError(t, err)
	return form, text
}
