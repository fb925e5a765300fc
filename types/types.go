package types

import "fmt"

// Phase is the lifecycle of a whole form conversation.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
	PhaseConfirmed  Phase = "confirmed"
	PhaseCancelled  Phase = "cancelled"
)

// StepPhase is the lifecycle of a single step. It is the signal the driver
// uses to decide whether more input is expected for the current step.
type StepPhase string

const (
	StepReady      StepPhase = "ready"
	StepResponding StepPhase = "responding"
	StepCompleted  StepPhase = "completed"
)

// FeedbackOption controls whether words a recognizer could not explain are
// echoed back once a field completes.
type FeedbackOption string

const (
	FeedbackAuto   FeedbackOption = "auto"
	FeedbackAlways FeedbackOption = "always"
	FeedbackNever  FeedbackOption = "never"
)

type FieldInfo struct {
	Name        string `json:"name"`
	JSONPointer string `json:"json_pointer,omitempty"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Value       any    `json:"value,omitempty"`
	Known       bool   `json:"known"`
}

// TermMatch is one candidate interpretation of the substring
// input[Start:Start+Length].
type TermMatch struct {
	Start      int     `json:"start"`
	Length     int     `json:"length"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

func (m TermMatch) End() int {
	return m.Start + m.Length
}

func (m TermMatch) Overlaps(other TermMatch) bool {
	return m.Start < other.End() && other.Start < m.End()
}

// Covers reports whether other lies entirely inside m.
func (m TermMatch) Covers(other TermMatch) bool {
	return m.Start <= other.Start && other.End() <= m.End()
}

func (m TermMatch) String() string {
	return fmt.Sprintf("%v@[%d,%d](%.2f)", m.Value, m.Start, m.Length, m.Confidence)
}

type Direction string

const (
	DirectionNext  Direction = "next"
	DirectionNamed Direction = "named"
	DirectionQuit  Direction = "quit"
	DirectionReset Direction = "reset"
)

// NextStep tells the driver which step follows a completed one.
type NextStep struct {
	Direction Direction `json:"direction"`
	Names     []string  `json:"names,omitempty"`
}

func Next() NextStep {
	return NextStep{Direction: DirectionNext}
}

func Named(names ...string) NextStep {
	return NextStep{Direction: DirectionNamed, Names: names}
}

func Quit() NextStep {
	return NextStep{Direction: DirectionQuit}
}
