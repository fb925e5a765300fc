package step

import (
	"slices"

	"github.com/tbxark/formdialog/types"
)

// SubPhase is the progress of a field step inside one field.
type SubPhase string

const (
	SentPrompt  SubPhase = "sent_prompt"
	SentClarify SubPhase = "sent_clarify"
)

// Ambiguity is a set of values competing for the same words of a reply.
type Ambiguity struct {
	// Description is the text the competing matches span.
	Description string `json:"description"`
	Candidates  []any  `json:"candidates"`
}

// FieldStepState tracks one field across its prompt and clarification turns.
type FieldStepState struct {
	SubPhase  SubPhase    `json:"sub_phase"`
	Settled   []any       `json:"settled,omitempty"`
	Pending   []Ambiguity `json:"pending,omitempty"`
	Unmatched *string     `json:"unmatched,omitempty"`
}

func (s *FieldStepState) Clone() *FieldStepState {
	if s == nil {
		return nil
	}
	out := &FieldStepState{
		SubPhase: s.SubPhase,
		Settled:  slices.Clone(s.Settled),
		Pending:  make([]Ambiguity, len(s.Pending)),
	}
	for i, a := range s.Pending {
		out.Pending[i] = Ambiguity{Description: a.Description, Candidates: slices.Clone(a.Candidates)}
	}
	if s.Unmatched != nil {
		unmatched := *s.Unmatched
		out.Unmatched = &unmatched
	}
	return out
}

// active returns the index of the ambiguity being clarified.
func (s *FieldStepState) active() (int, bool) {
	for i, a := range s.Pending {
		if len(a.Candidates) > 1 {
			return i, true
		}
	}
	return -1, false
}

// FormState is the per-session state of the step currently being asked.
type FormState struct {
	Phase types.StepPhase `json:"phase"`
	Field *FieldStepState `json:"field,omitempty"`
	// Next names the fields a navigation choice asked for.
	Next []string `json:"next,omitempty"`
}

func (f FormState) Clone() FormState {
	return FormState{
		Phase: f.Phase,
		Field: f.Field.Clone(),
		Next:  slices.Clone(f.Next),
	}
}
