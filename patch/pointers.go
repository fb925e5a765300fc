package patch

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Pointers lists every JSON pointer T can address, parents before children.
// Slice elements appear as "/-" and map entries as "/*".
func Pointers[T any]() []string {
	typ := reflect.TypeFor[T]()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return []string{}
	}
	w := pointerWalker{seen: map[reflect.Type]bool{}}
	w.walk(typ, "")
	return w.out
}

type pointerWalker struct {
	out  []string
	seen map[reflect.Type]bool
}

func (w *pointerWalker) walk(typ reflect.Type, prefix string) {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Struct:
		// recursive types stop at the first repetition on a path
		if w.seen[typ] {
			return
		}
		w.seen[typ] = true
		defer delete(w.seen, typ)
		for _, sf := range reflect.VisibleFields(typ) {
			if !sf.IsExported() || len(sf.Index) > 1 {
				continue
			}
			name := JSONFieldName(sf)
			if name == "-" || name == "" {
				continue
			}
			path := prefix + "/" + escapeJSONPointer(name)
			w.out = append(w.out, path)
			w.walk(sf.Type, path)
		}
	case reflect.Slice, reflect.Array:
		w.container(typ.Elem(), prefix+"/-")
	case reflect.Map:
		w.container(typ.Elem(), prefix+"/*")
	}
}

func (w *pointerWalker) container(elem reflect.Type, path string) {
	w.out = append(w.out, path)
	base := elem
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() == reflect.Struct {
		w.walk(elem, path)
	}
}

// JSONFieldName is the member name encoding/json uses for field.
func JSONFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return name
}

// ValidatePointer checks path against the allowed pointers. Allowed entries
// may use "-" or "*" segments as wildcards for array indexes and map keys.
// An empty allow list accepts everything.
func ValidatePointer(path string, allowed []string) error {
	if len(allowed) == 0 || slices.Contains(allowed, path) {
		return nil
	}
	segments := strings.Split(path, "/")
	for _, pattern := range allowed {
		if segmentsMatch(strings.Split(pattern, "/"), segments) {
			return nil
		}
	}
	return fmt.Errorf("path %q is not addressable", path)
}

func segmentsMatch(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if p == segments[i] {
			continue
		}
		if (p == "-" || p == "*") && segments[i] != "" {
			continue
		}
		return false
	}
	return true
}
