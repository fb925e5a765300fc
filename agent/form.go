package agent

import (
	"context"
	"fmt"

	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/step"
	"github.com/tbxark/formdialog/types"
)

// FormManager is told when a form is finished either way.
type FormManager[T any] interface {
	Cancel(ctx context.Context, form T) error
	Submit(ctx context.Context, form T) error
}

// Form is the ordered list of steps a conversation walks through.
type Form[T any] struct {
	steps  []step.Step[T]
	byName map[string]step.Step[T]
	fields *field.Fields[T]
}

func (f *Form[T]) Steps() []step.Step[T] {
	return f.steps
}

func (f *Form[T]) Step(name string) (step.Step[T], bool) {
	s, ok := f.byName[name]
	return s, ok
}

func (f *Form[T]) Fields() *field.Fields[T] {
	return f.fields
}

// Summary renders the answers held by model as a markdown table.
func (f *Form[T]) Summary(model T) string {
	return types.FormatSummary(f.fields.Info(model))
}

func (f *Form[T]) JSONSchema() (string, error) {
	return field.Schema[T]()
}

// Builder assembles a Form in the order steps are added.
type Builder[T any] struct {
	steps  []step.Step[T]
	fields []field.Field[T]
	err    error
}

func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Message shows pattern when the form reaches it and active, if set, holds.
func (b *Builder[T]) Message(pattern string, active func(model T) bool) *Builder[T] {
	name := fmt.Sprintf("message%d", len(b.steps))
	b.steps = append(b.steps, step.NewMessageStep[T](name, pattern, active))
	return b
}

func (b *Builder[T]) Field(fields ...field.Field[T]) *Builder[T] {
	for _, f := range fields {
		b.fields = append(b.fields, f)
		b.steps = append(b.steps, step.NewFieldStep[T](f))
	}
	return b
}

// Reflect adds one field per member of T.
func (b *Builder[T]) Reflect(opts ...field.Option[T]) *Builder[T] {
	fields, err := field.Reflect[T](opts...)
	if err != nil {
		b.err = err
		return b
	}
	for _, f := range fields {
		b.Field(f)
	}
	return b
}

// Confirm asks the user to confirm every field added so far. The prompt
// shows their values as a table.
func (b *Builder[T]) Confirm(opts ...field.Option[T]) *Builder[T] {
	covered := append([]field.Field[T](nil), b.fields...)
	names := make([]string, 0, len(covered))
	for _, f := range covered {
		if field.Pointer(f) != "" {
			names = append(names, f.Name())
		}
	}
	name := "confirm"
	if _, taken := b.find(name); taken {
		name = fmt.Sprintf("confirm%d", len(b.steps))
	}
	base := []field.Option[T]{
		field.WithDependencies[T](names...),
		field.WithVars(func(model T) prompt.Vars {
			return prompt.Vars{prompt.VarSummary: types.FormatSummary(field.Info(covered, model))}
		}),
	}
	return b.ConfirmField(field.NewConfirmation[T](name, append(base, opts...)...))
}

// ConfirmField adds a confirmation backed by a yes/no field.
func (b *Builder[T]) ConfirmField(f field.Field[T]) *Builder[T] {
	b.fields = append(b.fields, f)
	b.steps = append(b.steps, step.NewConfirmStep[T](f))
	return b
}

func (b *Builder[T]) find(name string) (field.Field[T], bool) {
	for _, f := range b.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

func (b *Builder[T]) Build() (*Form[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.steps) == 0 {
		return nil, fmt.Errorf("form has no steps")
	}
	fields, err := field.NewFields[T](b.fields...)
	if err != nil {
		return nil, err
	}
	form := &Form[T]{
		steps:  b.steps,
		byName: make(map[string]step.Step[T], len(b.steps)),
		fields: fields,
	}
	for _, s := range b.steps {
		form.byName[s.Name()] = s
	}
	return form, nil
}
