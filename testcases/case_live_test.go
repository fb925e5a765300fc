package testcases

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/agent"
	"github.com/tbxark/formdialog/types"
)

// TestLiveOrder talks to a real model through the adk runner.
func TestLiveOrder(t *testing.T) {
	chatModel := InitChatModel(t)
	ctx := agent.WithSessionKey(context.Background(), agent.NewSessionKey())

	form, err := NewOrderForm(chatModel)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	flow, err := agent.NewToolBasedFormFlow(form, chatModel)
	if err != nil {
		t.Fatalf("failed to create flow: %v", err)
	}
	orderAgent := agent.NewAgent("SandwichOrder", "Takes sandwich orders", flow, nil)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: orderAgent})

	for _, input := range []string{"hi", "whole wheat please", "a footlong", "onions and some lettuce", "yes that's right"} {
		iter := runner.Run(ctx, []adk.Message{schema.UserMessage(input)})
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				t.Fatalf("turn %q failed: %v", input, event.Err)
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				t.Fatalf("turn %q: %v", input, mErr)
			}
			t.Logf("user: %s\nassistant: %s", input, msg.Content)
		}
	}

	sess, err := orderAgent.Sessions().Read(ctx)
	if err != nil || sess == nil {
		t.Fatalf("no session stored: %v", err)
	}
	if sess.Phase != types.PhaseConfirmed {
		t.Errorf("expected phase confirmed, got %s", sess.Phase)
	}
	t.Logf("order: %+v", sess.Model)
}
