package field

import (
	"fmt"

	"github.com/tbxark/formdialog/patch"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/types"
)

// Fields is the ordered set of fields of a form.
type Fields[T any] struct {
	order  []Field[T]
	byName map[string]Field[T]
}

type pointerField interface {
	Pointer() string
}

// NewFields checks that names are unique and that every bound field points
// at a member of T.
func NewFields[T any](fields ...Field[T]) (*Fields[T], error) {
	allowed := patch.Pointers[T]()
	registry := &Fields[T]{byName: make(map[string]Field[T], len(fields))}
	for _, f := range fields {
		if _, exists := registry.byName[f.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name())
		}
		if pf, ok := f.(pointerField); ok && pf.Pointer() != "" {
			if err := patch.ValidatePointer(pf.Pointer(), allowed); err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name(), err)
			}
		}
		registry.order = append(registry.order, f)
		registry.byName[f.Name()] = f
	}
	return registry, nil
}

func (r *Fields[T]) Get(name string) (Field[T], error) {
	f, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f, nil
}

func (r *Fields[T]) All() []Field[T] {
	return r.order
}

func (r *Fields[T]) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, f := range r.order {
		names = append(names, f.Name())
	}
	return names
}

// Info describes the bound, active fields of model for summaries.
func (r *Fields[T]) Info(model T) []types.FieldInfo {
	return Info(r.order, model)
}

// Info describes the fields of model that are stored in it and active.
func Info[T any](fields []Field[T], model T) []types.FieldInfo {
	infos := make([]types.FieldInfo, 0, len(fields))
	for _, f := range fields {
		pf, ok := f.(pointerField)
		if !ok || pf.Pointer() == "" || !f.Active(model) {
			continue
		}
		info := types.FieldInfo{
			Name:        f.Name(),
			JSONPointer: pf.Pointer(),
			DisplayName: f.Description(),
		}
		if value, err := f.Value(model); err == nil && value != nil {
			info.Known = true
			info.Value = f.Vars(model)[prompt.VarValue]
		}
		infos = append(infos, info)
	}
	return infos
}

// Pointer returns the JSON pointer f is stored at, or "" when f is not bound
// to the model.
func Pointer[T any](f Field[T]) string {
	if pf, ok := f.(pointerField); ok {
		return pf.Pointer()
	}
	return ""
}
