package recognize

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/types"
)

type fakeChatModel struct {
	arguments string
	err       error
	calls     int
	messages  []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	f.messages = input
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			ID:       "call_1",
			Function: schema.FunctionCall{Name: recognizeToolName, Arguments: f.arguments},
		}},
	}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

func TestToolBasedMatches(t *testing.T) {
	cm := &fakeChatModel{arguments: `{"matches":[{"index":2,"text":"Sweet","confidence":0.5},{"index":3,"text":"sweet","confidence":0.5},{"index":9,"text":"x"}]}`}
	r, err := NewToolBased(cm, NewEnumeration(toppings), WithToolFieldName("Topping"))
	require.NoError(t, err)

	got, err := r.Matches(context.Background(), "I want sweet", nil)
	require.NoError(t, err)

	assert.Equal(t, []types.TermMatch{
		{Start: 7, Length: 5, Value: "sweet-potato", Confidence: 0.5},
		{Start: 7, Length: 5, Value: "sweet-corn", Confidence: 0.5},
	}, got)
	require.Len(t, cm.messages, 2)
	assert.Contains(t, cm.messages[1].Content, "# Field:\nTopping")
	assert.Contains(t, cm.messages[1].Content, "Sweet Potato")
	assert.Contains(t, cm.messages[0].Content, recognizeToolName)
}

func TestToolBasedUnknownTextSpansInput(t *testing.T) {
	cm := &fakeChatModel{arguments: `{"matches":[{"index":0,"text":"onions"}]}`}
	r, err := NewToolBased(cm, NewEnumeration(toppings))
	require.NoError(t, err)

	got, err := r.Matches(context.Background(), "the purple ones", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.TermMatch{{Start: 0, Length: 15, Value: "onion", Confidence: 1}}, got)
}

func TestToolBasedSpansUseInputOffsets(t *testing.T) {
	cm := &fakeChatModel{arguments: `{"matches":[{"index":0,"text":"onion"}]}`}
	r, err := NewToolBased(cm, NewEnumeration(toppings))
	require.NoError(t, err)

	input := "İstanbul style with ONION"
	got, err := r.Matches(context.Background(), input, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ONION", input[got[0].Start:got[0].Start+got[0].Length])
}

func TestIndexFold(t *testing.T) {
	start, n, ok := indexFold("Ünder the ÄPFEL", "äpfel")
	require.True(t, ok)
	assert.Equal(t, "ÄPFEL", "Ünder the ÄPFEL"[start:start+n])

	_, _, ok = indexFold("rye", "wheat")
	assert.False(t, ok)
	_, _, ok = indexFold("rye", "")
	assert.False(t, ok)
}

func TestToolBasedOpenEndedSkipsModel(t *testing.T) {
	cm := &fakeChatModel{}
	r, err := NewToolBased(cm, NewText())
	require.NoError(t, err)

	got, err := r.Matches(context.Background(), " rye ", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cm.calls)
	require.Len(t, got, 1)
	assert.Equal(t, "rye", got[0].Value)
}

func TestToolBasedRequiresModel(t *testing.T) {
	_, err := NewToolBased(nil, NewText())
	assert.Error(t, err)
}

func TestFailbackFallsThrough(t *testing.T) {
	broken, err := NewToolBased(&fakeChatModel{err: errors.New("offline")}, NewEnumeration(toppings))
	require.NoError(t, err)
	r := NewFailback(broken, NewEnumeration(toppings))

	got, err := r.Matches(context.Background(), "onion", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "onion", got[0].Value)
	assert.Equal(t, "Sweet Corn", r.ValueDescription("sweet-corn"))
	assert.Len(t, r.Values(), len(toppings))
}

func TestFailbackAllFail(t *testing.T) {
	broken, err := NewToolBased(&fakeChatModel{err: errors.New("offline")}, NewEnumeration(toppings))
	require.NoError(t, err)
	_, err = NewFailback(broken).Matches(context.Background(), "onion", nil)
	assert.ErrorContains(t, err, "offline")
}

func TestCachedMemoizes(t *testing.T) {
	cm := &fakeChatModel{arguments: `{"matches":[{"index":0,"text":"onion"}]}`}
	tool, err := NewToolBased(cm, NewEnumeration(toppings))
	require.NoError(t, err)
	r, err := NewCached(tool, 8)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := r.Matches(ctx, "onion", nil)
	require.NoError(t, err)
	second, err := r.Matches(ctx, "onion", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cm.calls)

	_, err = r.Matches(ctx, "onion", "pepper")
	require.NoError(t, err)
	assert.Equal(t, 2, cm.calls)
	assert.Equal(t, 2, r.Len())
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("offline")}
	tool, err := NewToolBased(cm, NewEnumeration(toppings))
	require.NoError(t, err)
	r, err := NewCached(tool, 8)
	require.NoError(t, err)

	_, err = r.Matches(context.Background(), "onion", nil)
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
}
