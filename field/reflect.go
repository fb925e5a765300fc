package field

import (
	"fmt"
	"reflect"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/formdialog/patch"
	"github.com/tbxark/formdialog/prompt"
	"github.com/tbxark/formdialog/recognize"
)

func reflectSchema[T any]() (*jsonschema.Schema, reflect.Type, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("model must be a struct, got %v", typ)
	}
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.ReflectFromType(typ), typ, nil
}

// Schema returns the JSON schema of T.
func Schema[T any]() (string, error) {
	s, _, err := reflectSchema[T]()
	if err != nil {
		return "", err
	}
	out, err := sonic.MarshalString(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return out, nil
}

// Reflect derives one field per top level member of T from its json and
// jsonschema tags. Enumerated members get an enumeration recognizer, booleans
// a yes/no recognizer, integers a number recognizer and everything else free
// text. Slices become multi-valued fields.
func Reflect[T any](opts ...Option[T]) ([]*JSONField[T], error) {
	s, typ, err := reflectSchema[T]()
	if err != nil {
		return nil, err
	}

	var fields []*JSONField[T]
	for i := 0; i < typ.NumField(); i++ {
		member := typ.Field(i)
		if !member.IsExported() {
			continue
		}
		name := patch.JSONFieldName(member)
		if name == "" || name == "-" {
			continue
		}
		var prop *jsonschema.Schema
		if s.Properties != nil {
			prop, _ = s.Properties.Get(name)
		}

		memberType := member.Type
		if memberType.Kind() == reflect.Ptr {
			memberType = memberType.Elem()
		}
		multiple := memberType.Kind() == reflect.Slice && memberType.Elem().Kind() != reflect.Uint8
		if memberType.Kind() == reflect.Struct || memberType.Kind() == reflect.Map {
			continue
		}

		fieldOpts := []Option[T]{
			WithPointer[T]("/" + name),
			WithMultiple[T](multiple),
		}
		if prop != nil && prop.Title != "" {
			fieldOpts = append(fieldOpts, WithDescription[T](prop.Title))
		} else if prop != nil && prop.Description != "" {
			fieldOpts = append(fieldOpts, WithDescription[T](prop.Description))
		}

		kind := memberType.Kind()
		if multiple {
			kind = memberType.Elem().Kind()
		}
		switch enum := enumValues(prop); {
		case len(enum) > 0:
			fieldOpts = append(fieldOpts,
				WithRecognizer[T](recognize.NewEnumeration(enum, recognize.WithMultiple(multiple))),
				WithTemplate[T](prompt.UsagePrompt, prompt.ChoicePattern),
			)
		case kind == reflect.Bool:
			fieldOpts = append(fieldOpts, WithRecognizer[T](recognize.NewBool()))
		case kind >= reflect.Int && kind <= reflect.Uint64:
			fieldOpts = append(fieldOpts, WithRecognizer[T](recognize.NewUnboundedNumber()))
		default:
			fieldOpts = append(fieldOpts, WithRecognizer[T](recognize.NewText()))
		}

		fields = append(fields, New[T](name, append(fieldOpts, opts...)...))
	}
	return fields, nil
}

func enumValues(prop *jsonschema.Schema) []any {
	if prop == nil {
		return nil
	}
	if len(prop.Enum) > 0 {
		return prop.Enum
	}
	if prop.Items != nil && len(prop.Items.Enum) > 0 {
		return prop.Items.Enum
	}
	return nil
}
