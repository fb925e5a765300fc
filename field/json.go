package field

import (
	"fmt"
	"strings"

	"github.com/tbxark/formdialog/patch"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
	"github.com/tbxark/formdialog/types"
)

var _ Field[any] = (*JSONField[any])(nil)

// JSONField stores its value at a JSON pointer inside the model. A field
// without a pointer is not bound to the model, which is what confirmations use.
type JSONField[T any] struct {
	name         string
	description  string
	pointer      string
	recognizer   recognize.Recognizer
	multiple     bool
	validate     func(model T, value any) error
	active       func(model T) bool
	next         func(value any, model T) types.NextStep
	dependencies []string
	feedback     types.FeedbackOption
	templates    map[prompt.Usage]prompt.Template
	terms        []string
	vars         func(model T) prompt.Vars
}

type Option[T any] func(*JSONField[T])

func WithPointer[T any](pointer string) Option[T] {
	return func(f *JSONField[T]) {
		f.pointer = pointer
	}
}

func WithDescription[T any](description string) Option[T] {
	return func(f *JSONField[T]) {
		f.description = description
	}
}

func WithRecognizer[T any](r recognize.Recognizer) Option[T] {
	return func(f *JSONField[T]) {
		f.recognizer = r
	}
}

func WithMultiple[T any](multiple bool) Option[T] {
	return func(f *JSONField[T]) {
		f.multiple = multiple
	}
}

func WithValidate[T any](validate func(model T, value any) error) Option[T] {
	return func(f *JSONField[T]) {
		f.validate = validate
	}
}

func WithActive[T any](active func(model T) bool) Option[T] {
	return func(f *JSONField[T]) {
		f.active = active
	}
}

func WithNext[T any](next func(value any, model T) types.NextStep) Option[T] {
	return func(f *JSONField[T]) {
		f.next = next
	}
}

func WithDependencies[T any](names ...string) Option[T] {
	return func(f *JSONField[T]) {
		f.dependencies = append(f.dependencies, names...)
	}
}

func WithFeedback[T any](feedback types.FeedbackOption) Option[T] {
	return func(f *JSONField[T]) {
		f.feedback = feedback
	}
}

// WithTemplate overrides the pattern rendered for usage.
func WithTemplate[T any](usage prompt.Usage, pattern string) Option[T] {
	return func(f *JSONField[T]) {
		t := prompt.Default(usage)
		t.Pattern = pattern
		f.templates[usage] = t
	}
}

func WithTerms[T any](terms ...string) Option[T] {
	return func(f *JSONField[T]) {
		f.terms = append(f.terms, terms...)
	}
}

// WithVars adds template variables computed from the model.
func WithVars[T any](vars func(model T) prompt.Vars) Option[T] {
	return func(f *JSONField[T]) {
		f.vars = vars
	}
}

func New[T any](name string, opts ...Option[T]) *JSONField[T] {
	f := &JSONField[T]{
		name:      name,
		feedback:  types.FeedbackAuto,
		templates: make(map[prompt.Usage]prompt.Template),
	}
	return f.With(opts...)
}

// With applies more options to f and returns it.
func (f *JSONField[T]) With(opts ...Option[T]) *JSONField[T] {
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.description == "" {
		f.description = recognize.Humanize(f.name)
	}
	if f.recognizer == nil {
		f.recognizer = recognize.NewText()
	}
	return f
}

func (f *JSONField[T]) Name() string {
	return f.name
}

func (f *JSONField[T]) Description() string {
	return f.description
}

func (f *JSONField[T]) Pointer() string {
	return f.pointer
}

func (f *JSONField[T]) Active(model T) bool {
	if f.active == nil {
		return true
	}
	return f.active(model)
}

func (f *JSONField[T]) AllowsMultiple() bool {
	return f.multiple
}

func (f *JSONField[T]) Validate(model T, value any) error {
	if f.validate == nil {
		return nil
	}
	return f.validate(model, value)
}

func (f *JSONField[T]) SetValue(model *T, value any) error {
	if f.pointer == "" {
		return nil
	}
	if f.multiple {
		value = recognize.Flatten(value)
	}
	updated, err := patch.Replace(*model, f.pointer, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", f.name, err)
	}
	*model = updated
	return nil
}

func (f *JSONField[T]) SetUnknown(model *T) error {
	if f.pointer == "" {
		return nil
	}
	updated, err := patch.Remove(*model, f.pointer)
	if err != nil {
		return fmt.Errorf("unset %s: %w", f.name, err)
	}
	*model = updated
	return nil
}

func (f *JSONField[T]) Value(model T) (any, error) {
	if f.pointer == "" {
		return nil, nil
	}
	value, ok, err := patch.Read(model, f.pointer)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.name, err)
	}
	if !ok || patch.IsZero(value) {
		return nil, nil
	}
	return value, nil
}

func (f *JSONField[T]) IsKnown(model T) bool {
	value, err := f.Value(model)
	return err == nil && value != nil
}

func (f *JSONField[T]) Next(value any, model T) types.NextStep {
	if f.next == nil {
		return types.Next()
	}
	return f.next(value, model)
}

func (f *JSONField[T]) Dependencies() []string {
	return f.dependencies
}

func (f *JSONField[T]) Template(usage prompt.Usage) prompt.Template {
	t, ok := f.templates[usage]
	if !ok {
		t = prompt.Default(usage)
	}
	if f.feedback != "" {
		t.Feedback = f.feedback
	}
	return t
}

func (f *JSONField[T]) Recognizer() recognize.Recognizer {
	return f.recognizer
}

func (f *JSONField[T]) Terms() []string {
	if len(f.terms) > 0 {
		return f.terms
	}
	terms := []string{recognize.Normalize(f.description)}
	if name := recognize.Normalize(f.name); name != terms[0] {
		terms = append(terms, name)
	}
	return terms
}

func (f *JSONField[T]) Vars(model T) prompt.Vars {
	vars := prompt.Vars{
		prompt.VarField: f.description,
		prompt.VarValue: types.DisplayValue(nil),
	}
	if value, err := f.Value(model); err == nil && value != nil {
		vars[prompt.VarValue] = f.display(value)
	}
	if f.vars != nil {
		for key, value := range f.vars(model) {
			vars[key] = value
		}
	}
	return vars
}

func (f *JSONField[T]) display(value any) string {
	values := recognize.Flatten(value)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, f.recognizer.ValueDescription(v))
	}
	return strings.Join(parts, ", ")
}
