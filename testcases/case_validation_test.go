package testcases

import "testing"

// TestValidationRejectsLength explains the rule and asks again.
func TestValidationRejectsLength(t *testing.T) {
	t.Parallel()
	chat, _ := NewChat(t, NewTestFlow(t))
	chat.Say("wheat")

	text := chat.Say("9")
	if text != "Sandwiches come in 6 or 12 inches.\nPlease enter length." {
		t.Errorf("unexpected reply %q", text)
	}
	if chat.Session.Model.Length != 0 {
		t.Errorf("rejected length was stored: %d", chat.Session.Model.Length)
	}

	text = chat.Say("12")
	Expect(t, text, "Please select toppings")
}
