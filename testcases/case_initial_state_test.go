package testcases

import (
	"context"
	"testing"

	"github.com/tbxark/formdialog/agent"
)

// TestInitialState skips the answers a returning customer already gave.
func TestInitialState(t *testing.T) {
	t.Parallel()
	flow := NewTestFlow(t, agent.WithInitialModel(func(ctx context.Context) Order {
		return Order{Bread: "wheat", Length: 12}
	}))

	chat, text := NewChat(t, flow)
	Expect(t, text, "Welcome to the sandwich bar!", "Please select toppings")

	text = chat.Say("onion")
	Expect(t, text, "Is this your selection?", "Wheat", "12", "Onion")
}
