package dialogue

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// LocalDialogueGenerator passes the form's own text through unchanged.
type LocalDialogueGenerator struct{}

func (g *LocalDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	return req.Text(), nil
}

func (g *LocalDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *Request) (*schema.StreamReader[string], error) {
	message, err := g.GenerateDialogue(ctx, req)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]string{message}), nil
}

// FailbackDialogueGenerator returns the reply of the first generator that
// succeeds.
type FailbackDialogueGenerator struct {
	generators []Generator
}

func NewFailbackDialogueGenerator(generators ...Generator) *FailbackDialogueGenerator {
	return &FailbackDialogueGenerator{generators: generators}
}

func firstSuccess[R any](generators []Generator, call func(Generator) (R, error)) (R, error) {
	var zero R
	lastErr := fmt.Errorf("no dialogue generator configured")
	for _, generator := range generators {
		out, err := call(generator)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return zero, fmt.Errorf("all dialogue generators failed: %w", lastErr)
}

func (g *FailbackDialogueGenerator) GenerateDialogue(ctx context.Context, req *Request) (string, error) {
	return firstSuccess(g.generators, func(generator Generator) (string, error) {
		return generator.GenerateDialogue(ctx, req)
	})
}

func (g *FailbackDialogueGenerator) GenerateDialogueStream(ctx context.Context, req *Request) (*schema.StreamReader[string], error) {
	return firstSuccess(g.generators, func(generator Generator) (*schema.StreamReader[string], error) {
		return generator.GenerateDialogueStream(ctx, req)
	})
}
