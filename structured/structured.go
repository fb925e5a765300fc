package structured

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

var ErrNoToolCall = errors.New("no tool call in model response")

// PromptBuilder renders the conversation sent to the model for one input.
type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

// Chain forces a chat model to answer through a single tool whose arguments
// decode into TOutput.
type Chain[TInput, TOutput any] struct {
	build PromptBuilder[TInput]
	bound model.ToolCallingChatModel
	tool  *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	build PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	if chatModel == nil {
		return nil, fmt.Errorf("tool %s: chat model is required", toolName)
	}
	if build == nil {
		return nil, fmt.Errorf("tool %s: prompt builder is required", toolName)
	}
	info, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("tool %s: describe arguments: %w", toolName, err)
	}
	bound, err := chatModel.WithTools([]*schema.ToolInfo{info})
	if err != nil {
		return nil, fmt.Errorf("tool %s: bind: %w", toolName, err)
	}
	return &Chain[TInput, TOutput]{build: build, bound: bound, tool: info}, nil
}

// Tool returns the tool definition the model is forced to call.
func (c *Chain[TInput, TOutput]) Tool() *schema.ToolInfo {
	return c.tool
}

func (c *Chain[TInput, TOutput]) prepare(ctx context.Context, input TInput) ([]*schema.Message, []model.Option, error) {
	messages, err := c.build(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("build prompt: %w", err)
	}
	opts := []model.Option{model.WithToolChoice(schema.ToolChoiceForced, c.tool.Name)}
	return messages, opts, nil
}

func (c *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput) (*TOutput, error) {
	messages, opts, err := c.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	response, err := c.bound.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	return Decode[TOutput](response, c.tool.Name)
}

// Stream asks the model for a streamed answer and decodes the tool call once
// every chunk has arrived.
func (c *Chain[TInput, TOutput]) Stream(ctx context.Context, input TInput) (*TOutput, error) {
	messages, opts, err := c.prepare(ctx, input)
	if err != nil {
		return nil, err
	}
	reader, err := c.bound.Stream(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("stream: %w", err)
	}
	defer reader.Close()
	response, err := schema.ConcatMessageStream(reader)
	if err != nil {
		return nil, fmt.Errorf("concat stream: %w", err)
	}
	return Decode[TOutput](response, c.tool.Name)
}

// Decode reads the arguments of the call to toolName in a model response,
// falling back to the first call when none carries that name.
func Decode[TOutput any](response *schema.Message, toolName string) (*TOutput, error) {
	if response == nil {
		return nil, ErrNoToolCall
	}
	calls := response.ToolCalls
	if len(calls) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoToolCall, response.Content)
	}
	args := calls[0].Function.Arguments
	for i := range calls {
		if calls[i].Function.Name == toolName {
			args = calls[i].Function.Arguments
			break
		}
	}
	out := new(TOutput)
	if err := sonic.UnmarshalString(args, out); err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", toolName, err)
	}
	return out, nil
}
