package main

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/formdialog/agent"
	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/recognize"
)

type Sandwich struct {
	Bread    string   `json:"bread,omitempty" jsonschema:"title=bread,enum=white,enum=wheat,enum=rye,enum=sourdough"`
	Length   int      `json:"length,omitempty" jsonschema:"title=length in inches"`
	Toppings []string `json:"toppings,omitempty" jsonschema:"title=toppings,enum=onion,enum=pepper,enum=red-pepper,enum=green-pepper,enum=sweet-potato,enum=sweet-corn,enum=lettuce,enum=tomato"`
	Sauces   []string `json:"sauces,omitempty" jsonschema:"title=sauces,enum=mayo,enum=mustard,enum=honey-mustard,enum=chipotle"`
	Toasted  bool     `json:"toasted,omitempty" jsonschema:"title=toasted"`
	// Name is asked for last and only for long sandwiches.
	Name string `json:"name,omitempty" jsonschema:"title=name for the order"`
}

func validLength(model Sandwich, value any) error {
	var length int
	switch v := value.(type) {
	case int:
		length = v
	case float64:
		length = int(v)
	}
	if length != 6 && length != 12 {
		return fmt.Errorf("We only make 6 or 12 inch sandwiches, not %d.", length)
	}
	return nil
}

// newSandwichForm builds the order form. With a chat model every field
// recognizer first asks the model and falls back to local matching.
func newSandwichForm(chatModel model.ToolCallingChatModel, cacheSize int) (*agent.Form[Sandwich], error) {
	fields, err := field.Reflect[Sandwich]()
	if err != nil {
		return nil, err
	}
	byName := map[string]*field.JSONField[Sandwich]{}
	for _, f := range fields {
		if chatModel != nil {
			local := f.Recognizer()
			tool, tErr := recognize.NewToolBased(chatModel, local, recognize.WithToolFieldName(f.Description()))
			if tErr != nil {
				return nil, tErr
			}
			cached, cErr := recognize.NewCached(tool, cacheSize)
			if cErr != nil {
				return nil, cErr
			}
			f.With(field.WithRecognizer[Sandwich](recognize.NewFailback(cached, local)))
		}
		byName[f.Name()] = f
	}

	byName["length"].With(field.WithValidate(validLength))
	byName["name"].With(field.WithActive(func(model Sandwich) bool {
		return model.Length == 12
	}))

	return agent.NewBuilder[Sandwich]().
		Message("Welcome to the sandwich bar!", nil).
		Field(byName["length"], byName["bread"], byName["toppings"], byName["sauces"], byName["toasted"]).
		Confirm().
		Field(byName["name"]).
		Message("Your sandwich will be ready in a few minutes.", nil).
		Build()
}
