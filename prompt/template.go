package prompt

import "github.com/tbxark/formdialog/types"

// Usage identifies what a template is rendered for.
type Usage string

const (
	UsagePrompt            Usage = "prompt"
	UsageClarify           Usage = "clarify"
	UsageConfirmation      Usage = "confirmation"
	UsageFeedback          Usage = "feedback"
	UsageFeedbackUnmatched Usage = "feedback_unmatched"
	UsageHelp              Usage = "help"
	UsageHelpClarify       Usage = "help_clarify"
	UsageHelpConfirm       Usage = "help_confirm"
	UsageHelpNavigation    Usage = "help_navigation"
	UsageNavigation        Usage = "navigation"
	UsageNavigationFormat  Usage = "navigation_format"
	UsageNotUnderstood     Usage = "not_understood"
)

// Template variables. Every variable is always defined, so a pattern may use
// any of them; unset ones render as the empty string.
const (
	VarField     = "field"
	VarInput     = "input"
	VarValue     = "value"
	VarUnmatched = "unmatched"
	VarChoices   = "choices"
	VarHelp      = "help"
	VarCommands  = "commands"
	VarSummary   = "summary"
)

var knownVars = []string{VarField, VarInput, VarValue, VarUnmatched, VarChoices, VarHelp, VarCommands, VarSummary}

type Template struct {
	Usage   Usage
	Pattern string
	// AllowNumbers lets choices be picked by number and numbers the rendered list.
	AllowNumbers bool
	Feedback     types.FeedbackOption
}

// ChoicePattern is the prompt pattern used for fields with a fixed set of values.
const ChoicePattern = "Please select {field}:\n{choices}"

var defaults = map[Usage]Template{
	UsagePrompt:            {Pattern: "Please enter {field}.", AllowNumbers: true},
	UsageClarify:           {Pattern: "By \"{input}\" {field} did you mean:\n{choices}", AllowNumbers: true},
	UsageConfirmation:      {Pattern: "Is this your selection?\n{summary}"},
	UsageFeedback:          {Pattern: "For {field} I understood {value}."},
	UsageFeedbackUnmatched: {Pattern: "For {field} I understood {value}. \"{unmatched}\" is not an option."},
	UsageHelp:              {Pattern: "You are filling in {field}. Possible responses:\n{help}\n{commands}"},
	UsageHelpClarify:       {Pattern: "You are clarifying a {field} value. Possible responses:\n{help}\n{commands}"},
	UsageHelpConfirm:       {Pattern: "Please answer the question. Possible responses:\n{help}\n{commands}"},
	UsageHelpNavigation:    {Pattern: "Choose what you want to change. Possible responses:\n{help}\n{commands}"},
	UsageNavigation:        {Pattern: "What do you want to change?\n{choices}", AllowNumbers: true},
	UsageNavigationFormat:  {Pattern: "{field}({value})"},
	UsageNotUnderstood:     {Pattern: "\"{input}\" is not a valid {field} option."},
}

// Default returns the built-in template for usage.
func Default(usage Usage) Template {
	t := defaults[usage]
	t.Usage = usage
	if t.Feedback == "" {
		t.Feedback = types.FeedbackAuto
	}
	return t
}
