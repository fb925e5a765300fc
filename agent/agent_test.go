package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/types"
)

func runAgent(t *testing.T, ctx context.Context, a *Agent[order], input string) (string, error) {
	t.Helper()
	iter := a.Run(ctx, &adk.AgentInput{Messages: []adk.Message{schema.UserMessage(input)}})
	var content string
	for {
		event, ok := iter.Next()
		if !ok {
			return content, nil
		}
		if event.Err != nil {
			return "", event.Err
		}
		msg, err := event.Output.MessageOutput.GetMessage()
		require.NoError(t, err)
		content = msg.Content
	}
}

func TestAgentRun(t *testing.T) {
	flow, err := NewFormFlow(orderForm(t))
	require.NoError(t, err)
	a := NewAgent("SandwichOrder", "Takes sandwich orders", flow, nil)
	ctx := WithSessionKey(context.Background(), NewSessionKey())

	assert.Equal(t, "SandwichOrder", a.Name(ctx))
	assert.Equal(t, "Takes sandwich orders", a.Description(ctx))

	text, err := runAgent(t, ctx, a, "I'd like a sandwich")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the sandwich bar!\nPlease enter Bread.", text)

	text, err = runAgent(t, ctx, a, "wheat")
	require.NoError(t, err)
	assert.Equal(t, "Please enter Toppings.", text)

	_, err = runAgent(t, ctx, a, "onion")
	require.NoError(t, err)
	text, err = runAgent(t, ctx, a, "yes")
	require.NoError(t, err)
	assert.Equal(t, completedMessage, text)

	sess, err := a.Sessions().Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseConfirmed, sess.Phase)

	text, err = runAgent(t, ctx, a, "another one")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the sandwich bar!\nPlease enter Bread.", text)
	assert.Equal(t, 0, a.locks.len())
}

func TestAgentRunWithoutMessages(t *testing.T) {
	flow, err := NewFormFlow(orderForm(t))
	require.NoError(t, err)
	a := NewAgent("SandwichOrder", "", flow, NewMemorySessionStore[order]())

	iter := a.Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.Error(t, event.Err)
}

func TestLastUserText(t *testing.T) {
	text, ok := lastUserText(&adk.AgentInput{Messages: []adk.Message{
		schema.UserMessage("rye"),
		schema.AssistantMessage("Please enter Toppings.", nil),
	}})
	assert.True(t, ok)
	assert.Equal(t, "rye", text)

	text, ok = lastUserText(&adk.AgentInput{Messages: []adk.Message{schema.SystemMessage("hello")}})
	assert.True(t, ok)
	assert.Equal(t, "hello", text)

	_, ok = lastUserText(nil)
	assert.False(t, ok)
}
