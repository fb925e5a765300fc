package recognize

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tbxark/formdialog/types"
)

var currentChoiceTerms = []string{"c", "current"}

// Enumeration is a lexical recognizer over a fixed set of values. Each value
// is described by a display string and a list of terms; a term matches a run
// of consecutive words in the input.
type Enumeration struct {
	values       []any
	describe     func(value any) string
	terms        func(value any) []string
	allowNumbers bool
	multiple     bool
}

type EnumerationOption func(*Enumeration)

// WithDescriber sets how values are shown to the user.
func WithDescriber(describe func(value any) string) EnumerationOption {
	return func(e *Enumeration) {
		e.describe = describe
	}
}

// WithTerms sets the phrases that select a value.
func WithTerms(terms func(value any) []string) EnumerationOption {
	return func(e *Enumeration) {
		e.terms = terms
	}
}

// WithNumbers lets a reply pick the n-th value by number.
func WithNumbers(allow bool) EnumerationOption {
	return func(e *Enumeration) {
		e.allowNumbers = allow
	}
}

// WithMultiple marks the recognizer as feeding a multi-valued field. It only
// changes the help text.
func WithMultiple(multiple bool) EnumerationOption {
	return func(e *Enumeration) {
		e.multiple = multiple
	}
}

func NewEnumeration(values []any, opts ...EnumerationOption) *Enumeration {
	e := &Enumeration{
		values:       values,
		allowNumbers: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.describe == nil {
		e.describe = func(value any) string {
			return Humanize(fmt.Sprint(value))
		}
	}
	if e.terms == nil {
		e.terms = e.defaultTerms
	}
	return e
}

// Scope builds a recognizer restricted to candidates that describes and
// matches them the way base does. It is used to clarify an ambiguous reply.
func Scope(candidates []any, base Recognizer, allowNumbers bool) *Enumeration {
	return NewEnumeration(candidates,
		WithDescriber(base.ValueDescription),
		WithTerms(base.ValidInputs),
		WithNumbers(allowNumbers),
	)
}

func (e *Enumeration) defaultTerms(value any) []string {
	phrase := Normalize(e.describe(value))
	terms := []string{phrase}
	if raw := Normalize(fmt.Sprint(value)); raw != phrase {
		terms = append(terms, raw)
	}
	words := strings.Fields(phrase)
	if len(words) > 1 {
		for _, word := range NonNoiseWords(words) {
			terms = appendUnique(terms, word)
		}
	}
	return terms
}

func (e *Enumeration) Values() []any {
	return e.values
}

func (e *Enumeration) ValueDescription(value any) string {
	return e.describe(value)
}

func (e *Enumeration) ValidInputs(value any) []string {
	return e.terms(value)
}

func (e *Enumeration) AllowNumbers() bool {
	return e.allowNumbers
}

func (e *Enumeration) Help(current any) string {
	descriptions := make([]string, 0, len(e.values))
	for _, value := range e.values {
		descriptions = append(descriptions, e.describe(value))
	}
	var sb strings.Builder
	if e.multiple {
		sb.WriteString("You can enter one or more selections from ")
	} else {
		sb.WriteString("You can enter a selection from ")
	}
	if e.allowNumbers && len(e.values) > 0 {
		sb.WriteString(fmt.Sprintf("the numbers 1-%d or ", len(e.values)))
	}
	sb.WriteString("any words in the descriptions (")
	sb.WriteString(strings.Join(descriptions, ", "))
	sb.WriteString(").")
	if current != nil {
		sb.WriteString(fmt.Sprintf(" The current choice is %s; type 'c' to keep it.", e.describeCurrent(current)))
	}
	return sb.String()
}

func (e *Enumeration) describeCurrent(current any) string {
	values := Flatten(current)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, e.describe(v))
	}
	return strings.Join(parts, ", ")
}

func (e *Enumeration) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	spans := wordSpans(input)
	if len(spans) == 0 {
		return nil, nil
	}
	words := make([]string, len(spans))
	for i, span := range spans {
		words[i] = strings.ToLower(input[span[0]:span[1]])
	}

	if current != nil && len(words) == 1 {
		for _, term := range currentChoiceTerms {
			if words[0] == term {
				return []types.TermMatch{{
					Start:      spans[0][0],
					Length:     spans[0][1] - spans[0][0],
					Value:      current,
					Confidence: 1,
				}}, nil
			}
		}
	}

	var matches []types.TermMatch
	for _, value := range e.values {
		phraseLen := len(strings.Fields(Normalize(e.describe(value))))
		for _, term := range e.terms(value) {
			termWords := strings.Fields(Normalize(term))
			if len(termWords) == 0 {
				continue
			}
			confidence := 1.0
			if phraseLen > len(termWords) {
				confidence = float64(len(termWords)) / float64(phraseLen)
			}
			for i := 0; i+len(termWords) <= len(words); i++ {
				if !wordsEqual(words[i:i+len(termWords)], termWords) {
					continue
				}
				start := spans[i][0]
				end := spans[i+len(termWords)-1][1]
				matches = append(matches, types.TermMatch{
					Start:      start,
					Length:     end - start,
					Value:      value,
					Confidence: confidence,
				})
			}
		}
	}

	if e.allowNumbers {
		for i, word := range words {
			n, err := strconv.Atoi(word)
			if err != nil || n < 1 || n > len(e.values) {
				continue
			}
			matches = append(matches, types.TermMatch{
				Start:      spans[i][0],
				Length:     spans[i][1] - spans[i][0],
				Value:      e.values[n-1],
				Confidence: 1,
			})
		}
	}

	matches = dropDominated(matches)
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Start < matches[b].Start
	})
	return matches, nil
}

// dropDominated removes matches that a longer or more confident match already
// explains: a partial word match inside a full phrase match, or the same value
// matched twice over the same words.
func dropDominated(matches []types.TermMatch) []types.TermMatch {
	out := make([]types.TermMatch, 0, len(matches))
	for i, m := range matches {
		dominated := false
		for j, other := range matches {
			if i == j || !other.Covers(m) {
				continue
			}
			if other.Confidence > m.Confidence {
				dominated = true
			} else if SameValue(other.Value, m.Value) && (other.Length > m.Length || (other.Length == m.Length && j < i)) {
				dominated = true
			}
			if dominated {
				break
			}
		}
		if !dominated {
			out = append(out, m)
		}
	}
	return out
}

func wordsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func appendUnique(list []string, s string) []string {
	for _, item := range list {
		if item == s {
			return list
		}
	}
	return append(list, s)
}
