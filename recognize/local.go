package recognize

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tbxark/formdialog/types"
)

// Bool recognizes yes/no style answers.
type Bool struct {
	YesTerms []string
	NoTerms  []string
}

func NewBool() *Bool {
	return &Bool{
		YesTerms: []string{"yes", "y", "yep", "yeah", "sure", "ok", "okay", "true", "correct", "right"},
		NoTerms:  []string{"no", "n", "nope", "nah", "false", "wrong", "incorrect"},
	}
}

func (b *Bool) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	var matches []types.TermMatch
	for _, span := range wordSpans(input) {
		word := strings.ToLower(input[span[0]:span[1]])
		var value, ok bool
		switch {
		case containsTerm(b.YesTerms, word):
			value, ok = true, true
		case containsTerm(b.NoTerms, word):
			value, ok = false, true
		}
		if ok {
			matches = append(matches, types.TermMatch{
				Start:      span[0],
				Length:     span[1] - span[0],
				Value:      value,
				Confidence: 1,
			})
		}
	}
	return matches, nil
}

func (b *Bool) Help(current any) string {
	return "Please answer yes or no."
}

func (b *Bool) ValidInputs(value any) []string {
	if v, ok := value.(bool); ok && !v {
		return b.NoTerms
	}
	return b.YesTerms
}

func (b *Bool) ValueDescription(value any) string {
	if v, ok := value.(bool); ok && v {
		return "Yes"
	}
	return "No"
}

func (b *Bool) Values() []any {
	return []any{true, false}
}

// Number recognizes integers, optionally bounded.
type Number struct {
	Min int
	Max int
}

func NewNumber(minValue, maxValue int) *Number {
	return &Number{Min: minValue, Max: maxValue}
}

// NewUnboundedNumber accepts any integer.
func NewUnboundedNumber() *Number {
	return &Number{Min: math.MinInt, Max: math.MaxInt}
}

func (n *Number) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	var matches []types.TermMatch
	for _, span := range wordSpans(input) {
		start := span[0]
		if start > 0 && input[start-1] == '-' {
			start--
		}
		v, err := strconv.Atoi(input[start:span[1]])
		if err != nil || v < n.Min || v > n.Max {
			continue
		}
		matches = append(matches, types.TermMatch{
			Start:      start,
			Length:     span[1] - start,
			Value:      v,
			Confidence: 1,
		})
	}
	return matches, nil
}

func (n *Number) Help(current any) string {
	if n.Min == math.MinInt && n.Max == math.MaxInt {
		return "Please enter a number."
	}
	return fmt.Sprintf("Please enter a number between %d and %d.", n.Min, n.Max)
}

func (n *Number) ValidInputs(value any) []string {
	return []string{fmt.Sprint(value)}
}

func (n *Number) ValueDescription(value any) string {
	return fmt.Sprint(value)
}

func (n *Number) Values() []any {
	return nil
}

// Text accepts any non-blank reply as the value.
type Text struct{}

func NewText() *Text {
	return &Text{}
}

func (t *Text) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	return []types.TermMatch{{
		Start:      strings.Index(input, trimmed),
		Length:     len(trimmed),
		Value:      trimmed,
		Confidence: 1,
	}}, nil
}

func (t *Text) Help(current any) string {
	if current != nil && current != "" {
		return fmt.Sprintf("Please enter any text. The current value is %q.", current)
	}
	return "Please enter any text."
}

func (t *Text) ValidInputs(value any) []string {
	return []string{fmt.Sprint(value)}
}

func (t *Text) ValueDescription(value any) string {
	return fmt.Sprint(value)
}

func (t *Text) Values() []any {
	return nil
}

func containsTerm(terms []string, word string) bool {
	for _, term := range terms {
		if term == word {
			return true
		}
	}
	return false
}
