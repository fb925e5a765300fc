package recognize

import (
	"reflect"
	"sort"
	"strings"

	"github.com/tbxark/formdialog/types"
)

// GroupedMatches partitions matches into groups of transitively overlapping
// spans. Groups are ordered by their earliest start and members keep the
// order they had in matches.
func GroupedMatches(matches []types.TermMatch) [][]types.TermMatch {
	if len(matches) == 0 {
		return nil
	}
	order := make([]int, len(matches))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return matches[order[a]].Start < matches[order[b]].Start
	})

	var groups [][]int
	end := 0
	for _, idx := range order {
		m := matches[idx]
		if len(groups) > 0 && m.Start < end {
			last := len(groups) - 1
			groups[last] = append(groups[last], idx)
			end = max(end, m.End())
			continue
		}
		groups = append(groups, []int{idx})
		end = m.End()
	}

	out := make([][]types.TermMatch, 0, len(groups))
	for _, group := range groups {
		sort.Ints(group)
		members := make([]types.TermMatch, 0, len(group))
		for _, idx := range group {
			members = append(members, matches[idx])
		}
		out = append(out, members)
	}
	return out
}

// HighestConfidence drops every match that overlaps a match with strictly
// higher confidence.
func HighestConfidence(matches []types.TermMatch) []types.TermMatch {
	out := make([]types.TermMatch, 0, len(matches))
	for i, m := range matches {
		best := true
		for j, other := range matches {
			if i != j && other.Overlaps(m) && other.Confidence > m.Confidence {
				best = false
				break
			}
		}
		if best {
			out = append(out, m)
		}
	}
	return out
}

// Coalesce merges matches for the same value that overlap or are separated
// only by punctuation and noise words.
func Coalesce(matches []types.TermMatch, input string) []types.TermMatch {
	if len(matches) < 2 {
		return matches
	}
	sorted := make([]types.TermMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Start < sorted[b].Start
	})

	out := make([]types.TermMatch, 0, len(sorted))
	for _, m := range sorted {
		merged := false
		for i := len(out) - 1; i >= 0; i-- {
			prev := out[i]
			if !SameValue(prev.Value, m.Value) || !adjacent(prev, m, input) {
				continue
			}
			end := max(prev.End(), m.End())
			prev.Length = end - prev.Start
			prev.Confidence = max(prev.Confidence, m.Confidence)
			out[i] = prev
			merged = true
			break
		}
		if !merged {
			out = append(out, m)
		}
	}
	return out
}

func adjacent(prev, next types.TermMatch, input string) bool {
	if next.Start <= prev.End() {
		return true
	}
	if prev.End() > len(input) || next.Start > len(input) {
		return false
	}
	return len(NonNoiseWords(WordBreak(input[prev.End():next.Start]))) == 0
}

// Unmatched returns the trimmed segments of input that no match explains.
func Unmatched(input string, matches []types.TermMatch) []string {
	covered := make([]bool, len(input))
	for _, m := range matches {
		start := max(0, m.Start)
		end := min(len(input), m.End())
		for i := start; i < end; i++ {
			covered[i] = true
		}
	}
	var segments []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if s := strings.TrimSpace(input[start:end]); s != "" {
			segments = append(segments, s)
		}
		start = -1
	}
	for i := range input {
		if covered[i] {
			flush(i)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(input))
	return segments
}

// DistinctValues returns the values of matches without repeats, in order.
func DistinctValues(matches []types.TermMatch) []any {
	var out []any
	for _, m := range matches {
		if !ContainsValue(out, m.Value) {
			out = append(out, m.Value)
		}
	}
	return out
}

func ContainsValue(values []any, value any) bool {
	for _, v := range values {
		if SameValue(v, value) {
			return true
		}
	}
	return false
}

func SameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Flatten expands slice and array values into their elements. Recognizers
// for multi-select answers may return a whole list as a single match value.
func Flatten(value any) []any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{value}
		}
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return out
	default:
		return []any{value}
	}
}
