package command

import (
	"context"
	"strings"
)

// Command is a driver level instruction that bypasses the current step.
type Command string

const (
	None   Command = "none"
	Back   Command = "back"
	Help   Command = "help"
	Quit   Command = "quit"
	Status Command = "status"
	Reset  Command = "reset"
)

var descriptions = map[Command]string{
	Back:   "back: undo the last answer",
	Help:   "help: explain what you can answer",
	Quit:   "quit: stop filling in the form",
	Status: "status: show what has been answered so far",
	Reset:  "reset: start the form over",
}

// All lists the commands a user can give, in help order.
var All = []Command{Back, Help, Quit, Status, Reset}

// Describe renders one bullet line per command.
func Describe(cmds ...Command) string {
	lines := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		if d, ok := descriptions[cmd]; ok {
			lines = append(lines, "* "+d)
		}
	}
	return strings.Join(lines, "\n")
}

// Request is the latest exchange between the form and the user.
type Request struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Parser interface {
	ParseCommand(ctx context.Context, req *Request) (Command, error)
}
