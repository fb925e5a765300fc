package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// DisplayValue renders a field value the way prompts show it to a user.
func DisplayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "Unspecified"
	case string:
		if v == "" {
			return "Unspecified"
		}
		return v
	case []any:
		if len(v) == 0 {
			return "Unspecified"
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, DisplayValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		if len(v) == 0 {
			return "Unspecified"
		}
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// FormatSummary renders the current field values as a markdown table.
func FormatSummary(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, field := range fields {
		value := "Unspecified"
		if field.Known {
			value = DisplayValue(field.Value)
		}
		_ = table.Append(field.DisplayName, value)
	}
	_ = table.Render()
	return strings.TrimRight(buf.String(), "\n")
}

// FormatOptions renders numbered options as a markdown table. It is used when
// a language model has to pick among candidate values.
func FormatOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Index", "Option")
	for i, option := range options {
		_ = table.Append(fmt.Sprint(i), option)
	}
	_ = table.Render()
	return strings.TrimRight(buf.String(), "\n")
}
