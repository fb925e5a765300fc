package command

import (
	"context"
	"fmt"
	"strings"
)

type LocalCommandParser struct {
	Keywords map[Command][]string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		Keywords: map[Command][]string{
			Back:   {"back", "go back", "undo", "previous"},
			Help:   {"help", "?", "what can i say"},
			Quit:   {"quit", "cancel", "exit", "stop"},
			Status: {"status", "summary", "what do i have"},
			Reset:  {"reset", "restart", "start over"},
		},
	}
}

func (p *LocalCommandParser) ParseCommand(ctx context.Context, req *Request) (Command, error) {
	raw := strings.ToLower(strings.TrimSpace(req.Answer))
	normalized := strings.TrimRight(raw, ".!")
	for _, cmd := range All {
		for _, keyword := range p.Keywords[cmd] {
			if raw == keyword || normalized == keyword {
				return cmd, nil
			}
		}
	}
	return None, nil
}

type FailbackCommandParser struct {
	parsers []Parser
}

func NewFailbackCommandParser(parsers ...Parser) *FailbackCommandParser {
	return &FailbackCommandParser{parsers: parsers}
}

func (p *FailbackCommandParser) ParseCommand(ctx context.Context, req *Request) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, req)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return None, nil
	}
	return None, fmt.Errorf("all command parsers failed: %w", lastErr)
}
