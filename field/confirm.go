package field

import (
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
)

// NewConfirmation builds a yes/no field that is not stored in the model. Its
// prompt shows the {summary} variable, which the caller supplies through
// WithVars.
func NewConfirmation[T any](name string, opts ...Option[T]) *JSONField[T] {
	confirmation := prompt.Default(prompt.UsageConfirmation)
	base := []Option[T]{
		WithRecognizer[T](recognize.NewBool()),
		WithTemplate[T](prompt.UsagePrompt, confirmation.Pattern),
	}
	return New[T](name, append(base, opts...)...)
}
