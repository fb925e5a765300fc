package dialogue

import (
	"context"

	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/formdialog/types"
)

// Request is what the form wants to say in reply to the user.
type Request struct {
	Phase         types.Phase
	Step          string
	LastUserInput string
	// Feedback comments on the last answer; Prompt asks for the next one.
	Feedback string
	Prompt   string
}

// Text joins feedback and prompt the way the form produced them.
func (r *Request) Text() string {
	switch {
	case r.Feedback == "":
		return r.Prompt
	case r.Prompt == "":
		return r.Feedback
	default:
		return r.Feedback + "\n" + r.Prompt
	}
}

type Generator interface {
	GenerateDialogue(ctx context.Context, req *Request) (string, error)
	GenerateDialogueStream(ctx context.Context, req *Request) (*schema.StreamReader[string], error)
}
