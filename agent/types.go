package agent

import (
	"maps"
	"slices"

	"github.com/tbxark/formdialog/step"
	"github.com/tbxark/formdialog/types"
)

// Session is everything the driver remembers about one conversation.
type Session[T any] struct {
	Phase types.Phase `json:"phase" jsonschema:"enum=collecting,enum=confirming,enum=confirmed,enum=cancelled,description=The current phase of the form filling process"`
	Model T           `json:"model" jsonschema:"description=The form being filled"`
	// Step is the name of the step waiting for input, empty before the
	// first prompt and after the form closed.
	Step string         `json:"step,omitempty"`
	Form step.FormState `json:"form"`
	// Completed holds the names of answered steps.
	Completed map[string]bool `json:"completed,omitempty"`
	// History is the order steps were answered in, for going back.
	History        []string `json:"history,omitempty"`
	LatestQuestion string   `json:"latest_question,omitempty"`
	Started        bool     `json:"started"`
}

func NewSession[T any](model T) *Session[T] {
	return &Session[T]{
		Phase:     types.PhaseCollecting,
		Model:     model,
		Completed: map[string]bool{},
	}
}

// Clone copies the session so a failed turn can be discarded. Model is
// copied shallowly; field setters replace it instead of writing through it.
func (s *Session[T]) Clone() *Session[T] {
	out := *s
	out.Form = s.Form.Clone()
	out.Completed = maps.Clone(s.Completed)
	if out.Completed == nil {
		out.Completed = map[string]bool{}
	}
	out.History = slices.Clone(s.History)
	return &out
}

func (s *Session[T]) Closed() bool {
	return s.Phase == types.PhaseConfirmed || s.Phase == types.PhaseCancelled
}

type Request[T any] struct {
	Session   *Session[T] `json:"session"`
	UserInput string      `json:"user_input"`
}

type Response[T any] struct {
	Message  string            `json:"message,omitempty"`
	Session  *Session[T]       `json:"session,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
