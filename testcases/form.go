package testcases

import (
	"errors"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/formdialog/agent"
	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/recognize"
)

type Order struct {
	Bread    string   `json:"bread,omitempty" jsonschema:"title=bread,enum=white,enum=wheat,enum=rye"`
	Length   int      `json:"length,omitempty" jsonschema:"title=length"`
	Toppings []string `json:"toppings,omitempty" jsonschema:"title=toppings,enum=onion,enum=lettuce,enum=tomato,enum=sweet-potato,enum=sweet-corn,enum=red-pepper,enum=green-pepper"`
}

func validateLength(model Order, value any) error {
	if n, ok := value.(int); ok && (n == 6 || n == 12) {
		return nil
	}
	return errors.New("Sandwiches come in 6 or 12 inches.")
}

// NewOrderForm asks for bread, length and toppings, then confirms. A non-nil
// chat model is asked first by every recognizer.
func NewOrderForm(chatModel model.ToolCallingChatModel) (*agent.Form[Order], error) {
	fields, err := field.Reflect[Order]()
	if err != nil {
		return nil, err
	}
	b := agent.NewBuilder[Order]().Message("Welcome to the sandwich bar!", nil)
	for _, f := range fields {
		if f.Name() == "length" {
			f.With(field.WithValidate(validateLength))
		}
		if chatModel != nil {
			tool, tErr := recognize.NewToolBased(chatModel, f.Recognizer(), recognize.WithToolFieldName(f.Description()))
			if tErr != nil {
				return nil, tErr
			}
			f.With(field.WithRecognizer[Order](recognize.NewFailback(tool, f.Recognizer())))
		}
		b.Field(f)
	}
	return b.Confirm().Build()
}
