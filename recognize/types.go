package recognize

import (
	"context"

	"github.com/tbxark/formdialog/types"
)

// Recognizer translates free text into candidate values. Implementations must
// be deterministic for identical input and current value.
type Recognizer interface {
	// Matches returns every candidate interpretation of input. current is the
	// value the field already holds, or nil.
	Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error)
	Help(current any) string
	ValidInputs(value any) []string
	ValueDescription(value any) string
	// Values lists the possible values, or nil when the recognizer is open ended.
	Values() []any
}
