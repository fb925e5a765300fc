package field

import (
	"errors"

	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrDuplicateField = errors.New("duplicate field")
)

// Field describes one slot of the model T and how to talk about it.
type Field[T any] interface {
	Name() string
	// Description is the human readable name used in prompts.
	Description() string
	Active(model T) bool
	AllowsMultiple() bool
	// Validate returns a user facing error when value is not acceptable.
	Validate(model T, value any) error
	SetValue(model *T, value any) error
	SetUnknown(model *T) error
	Value(model T) (any, error)
	IsKnown(model T) bool
	Next(value any, model T) types.NextStep
	Dependencies() []string
	Template(usage prompt.Usage) prompt.Template
	Recognizer() recognize.Recognizer
	// Terms are the words that name the field itself, used when navigating.
	Terms() []string
	// Vars are the template variables describing the field in model.
	Vars(model T) prompt.Vars
}
