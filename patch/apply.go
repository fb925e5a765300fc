package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// document encodes v and also returns its generic decoded form.
func document(v any) ([]byte, any, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode model: %w", err)
	}
	var doc any
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}
	return raw, doc, nil
}

// ApplyRFC6902 applies ops to the JSON form of current and decodes the result
// back into T. A patch that leaves the document unrepresentable as T fails.
func ApplyRFC6902[T any](current T, ops []Operation) (T, error) {
	if len(ops) == 0 {
		return current, nil
	}
	raw, doc, err := document(current)
	if err != nil {
		return current, err
	}
	ops = normalize(doc, ops)
	if len(ops) == 0 {
		return current, nil
	}

	encoded, err := sonic.Marshal(ops)
	if err != nil {
		return current, fmt.Errorf("encode patch: %w", err)
	}
	p, err := jsonpatch.DecodePatch(encoded)
	if err != nil {
		return current, fmt.Errorf("decode patch: %w", err)
	}
	patched, err := p.Apply(raw)
	if err != nil {
		return current, fmt.Errorf("apply patch: %w", err)
	}

	var next T
	if err := sonic.Unmarshal(patched, &next); err != nil {
		return current, fmt.Errorf("patched document does not fit %T: %w", current, err)
	}
	return next, nil
}

// Replace sets the value at pointer, creating the member when it is absent.
func Replace[T any](current T, pointer string, value any) (T, error) {
	return ApplyRFC6902(current, []Operation{{Op: OperationReplace, Path: pointer, Value: value}})
}

// Remove deletes the value at pointer; decoding back into T leaves it zero.
func Remove[T any](current T, pointer string) (T, error) {
	return ApplyRFC6902(current, []Operation{{Op: OperationRemove, Path: pointer}})
}

// normalize turns replaces of missing members into adds and drops removes of
// missing members, so patches against sparse documents still apply.
func normalize(doc any, ops []Operation) []Operation {
	out := ops[:0:0]
	for _, op := range ops {
		_, present := Lookup(doc, op.Path)
		switch {
		case op.Op == OperationRemove && !present:
			continue
		case op.Op == OperationReplace && !present:
			op.Op = OperationAdd
		}
		out = append(out, op)
	}
	return out
}

// Read returns the JSON value at pointer in current.
func Read[T any](current T, pointer string) (any, bool, error) {
	_, doc, err := document(current)
	if err != nil {
		return nil, false, err
	}
	value, ok := Lookup(doc, pointer)
	return value, ok, nil
}

// Lookup walks a decoded JSON document along an RFC6901 pointer.
func Lookup(doc any, pointer string) (any, bool) {
	if pointer == "" {
		return doc, true
	}
	rest, found := strings.CutPrefix(pointer, "/")
	if !found {
		return nil, false
	}
	node := doc
	for _, token := range strings.Split(rest, "/") {
		token = pointerUnescaper.Replace(token)
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[token]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

func escapeJSONPointer(token string) string {
	return pointerEscaper.Replace(token)
}
