package patch

import "slices"

// Prefilled lists the pointers of leaf members that hold a non-zero value in
// initial. A driver treats those members as already answered.
func Prefilled[T any](initial T) ([]string, error) {
	_, doc, err := document(initial)
	if err != nil {
		return nil, err
	}
	var found []string
	var walk func(prefix string, obj map[string]any)
	walk = func(prefix string, obj map[string]any) {
		for name, value := range obj {
			if IsZero(value) {
				continue
			}
			path := prefix + "/" + escapeJSONPointer(name)
			if child, ok := value.(map[string]any); ok {
				walk(path, child)
			} else {
				found = append(found, path)
			}
		}
	}
	if obj, ok := doc.(map[string]any); ok {
		walk("", obj)
	}
	slices.Sort(found)
	return found, nil
}

// IsZero reports whether a decoded JSON value is empty.
func IsZero(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
