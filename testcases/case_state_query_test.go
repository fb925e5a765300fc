package testcases

import "testing"

// TestStatusAndHelp answers commands without moving the form on.
func TestStatusAndHelp(t *testing.T) {
	t.Parallel()
	chat, _ := NewChat(t, NewTestFlow(t))
	chat.Say("rye")

	text := chat.Say("status")
	Expect(t, text, "| bread", "Rye", "Unspecified", "Please enter length.")

	text = chat.Say("help")
	Expect(t, text, "You are filling in length.", "Please enter a number.", "* quit: stop filling in the form")

	if chat.Session.Step != "length" {
		t.Errorf("expected to stay on length, got %q", chat.Session.Step)
	}
}

// TestReset starts the order over.
func TestReset(t *testing.T) {
	t.Parallel()
	chat, _ := NewChat(t, NewTestFlow(t))
	chat.Say("rye")

	text := chat.Say("start over")
	Expect(t, text, "Welcome to the sandwich bar!", "Please select bread")
	if chat.Session.Model.Bread != "" {
		t.Errorf("expected an empty order, got %+v", chat.Session.Model)
	}
}
