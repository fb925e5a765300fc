package testcases

import (
	"slices"
	"testing"

	"github.com/tbxark/formdialog/agent"
	"github.com/tbxark/formdialog/types"
)

// TestBasicOrder fills the whole form one answer per turn.
func TestBasicOrder(t *testing.T) {
	t.Parallel()
	chat, text := NewChat(t, NewTestFlow(t))
	Expect(t, text, "Welcome to the sandwich bar!", "Please select bread", "Wheat")

	text = chat.Say("wheat")
	Expect(t, text, "Please enter length.")
	if chat.Session.Model.Bread != "wheat" {
		t.Errorf("expected bread 'wheat', got %q", chat.Session.Model.Bread)
	}

	text = chat.Say("12")
	Expect(t, text, "Please select toppings")

	text = chat.Say("onion and lettuce")
	if chat.Session.Phase != types.PhaseConfirming {
		t.Errorf("expected phase confirming, got %s", chat.Session.Phase)
	}
	Expect(t, text, "Is this your selection?", "Onion, Lettuce", "12")

	text = chat.Say("yes")
	if chat.Session.Phase != types.PhaseConfirmed {
		t.Errorf("expected phase confirmed, got %s", chat.Session.Phase)
	}
	want := []string{"onion", "lettuce"}
	if !slices.Equal(chat.Session.Model.Toppings, want) {
		t.Errorf("expected toppings %v, got %v", want, chat.Session.Model.Toppings)
	}
	t.Logf("final reply: %s", text)
}

// TestNumberedChoice picks bread by its position in the list.
func TestNumberedChoice(t *testing.T) {
	t.Parallel()
	chat, _ := NewChat(t, NewTestFlow(t))
	chat.Say("3")
	if chat.Session.Model.Bread != "rye" {
		t.Errorf("expected bread 'rye', got %q", chat.Session.Model.Bread)
	}
}

// TestUnmatchedWordsAreEchoed keeps the answer and says which words were
// not understood.
func TestUnmatchedWordsAreEchoed(t *testing.T) {
	t.Parallel()
	chat, _ := NewChat(t, NewTestFlow(t))
	text := chat.Say("wheat toast")
	Expect(t, text, "For bread I understood Wheat.", "\"toast\" is not an option.", "Please enter length.")
}

// TestClosedSession rejects input once the order is placed.
func TestClosedSession(t *testing.T) {
	t.Parallel()
	flow := NewTestFlow(t)
	chat, _ := NewChat(t, flow)
	chat.Say("white")
	chat.Say("6")
	chat.Say("tomato")
	chat.Say("yes")

	_, err := flow.Invoke(t.Context(), &agent.Request[Order]{Session: chat.Session, UserInput: "more"})
	if err == nil {
		t.Fatal("expected an error for a closed session")
	}
}
