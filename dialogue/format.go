package dialogue

import (
	"fmt"
	"strings"
)

func formatRequest(req *Request) string {
	sections := make([]string, 0, 4)
	if req.Step != "" {
		sections = append(sections, fmt.Sprintf("# Current question:\n%s", req.Step))
	}
	if req.LastUserInput != "" {
		sections = append(sections, fmt.Sprintf("# User input:\n%s", req.LastUserInput))
	}
	if req.Feedback != "" {
		sections = append(sections, fmt.Sprintf("# Feedback on the answer:\n%s", req.Feedback))
	}
	if req.Prompt != "" {
		sections = append(sections, fmt.Sprintf("# Next message:\n%s", req.Prompt))
	}
	return strings.Join(sections, "\n\n")
}
