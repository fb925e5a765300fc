package recognize

import (
	"context"
	"fmt"

	"github.com/tbxark/formdialog/types"
)

// Failback tries recognizers in order and returns the first result that did
// not fail. Help and descriptions come from the first recognizer.
type Failback struct {
	recognizers []Recognizer
}

func NewFailback(recognizers ...Recognizer) *Failback {
	return &Failback{recognizers: recognizers}
}

func (f *Failback) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	var lastErr error
	for _, r := range f.recognizers {
		matches, err := r.Matches(ctx, input, current)
		if err == nil {
			return matches, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, nil
	}
	return nil, fmt.Errorf("all recognizers failed: %w", lastErr)
}

func (f *Failback) primary() Recognizer {
	if len(f.recognizers) == 0 {
		return NewText()
	}
	return f.recognizers[0]
}

func (f *Failback) Help(current any) string {
	return f.primary().Help(current)
}

func (f *Failback) ValidInputs(value any) []string {
	return f.primary().ValidInputs(value)
}

func (f *Failback) ValueDescription(value any) string {
	return f.primary().ValueDescription(value)
}

func (f *Failback) Values() []any {
	return f.primary().Values()
}
