// Package prompts asks for a single value with a bounded number of attempts.
// Unlike a field step it never clarifies: a reply either parses into exactly
// one value or counts as a failed attempt.
package prompts

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrTooManyAttempts ends a prompt whose attempts are used up.
var ErrTooManyAttempts = errors.New("too many attempts")

const (
	DefaultAttempts = 3
	// TooManyAttemptsMessage is the reply text once attempts are used up.
	TooManyAttemptsMessage = "too many attempts"
)

type options struct {
	retry    string
	attempts int
}

type Option func(*options)

// WithRetry sets the text shown after a reply that did not parse.
func WithRetry(retry string) Option {
	return func(o *options) {
		o.retry = retry
	}
}

func WithAttempts(attempts int) Option {
	return func(o *options) {
		o.attempts = attempts
	}
}

// Reply is the outcome of one answer.
type Reply[R any] struct {
	Done  bool
	Value R
	// Text is what to show next: the retry prompt, or the final message.
	Text string
}

type Prompt[R any] struct {
	prompt   string
	retry    string
	attempts int
	parse    func(input string) (R, bool)
}

func newPrompt[R any](prompt, defaultRetry string, parse func(string) (R, bool), opts []Option) *Prompt[R] {
	o := options{retry: defaultRetry, attempts: DefaultAttempts}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.attempts <= 0 {
		o.attempts = DefaultAttempts
	}
	return &Prompt[R]{prompt: prompt, retry: o.retry, attempts: o.attempts, parse: parse}
}

// Text accepts any non-blank reply.
func Text(prompt string, opts ...Option) *Prompt[string] {
	return newPrompt(prompt, "I didn't understand. Say something in reply.\n"+prompt, func(input string) (string, bool) {
		text := strings.TrimSpace(input)
		return text, text != ""
	}, opts)
}

// Confirm accepts y, yes or ok for true and n or no for false.
func Confirm(prompt string, opts ...Option) *Prompt[bool] {
	return newPrompt(prompt, "I didn't understand. Valid replies are yes or no.\n"+prompt, func(input string) (bool, bool) {
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes", "ok":
			return true, true
		case "n", "no":
			return false, true
		default:
			return false, false
		}
	}, opts)
}

func Number(prompt string, opts ...Option) *Prompt[int] {
	return newPrompt(prompt, prompt, func(input string) (int, bool) {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		return n, err == nil
	}, opts)
}

// Choice accepts a reply contained in exactly one option, ignoring case.
func Choice[O any](prompt string, choices []O, opts ...Option) *Prompt[O] {
	lines := make([]string, 0, len(choices)+1)
	lines = append(lines, prompt)
	for _, c := range choices {
		lines = append(lines, fmt.Sprintf("- %v", c))
	}
	text := strings.Join(lines, "\n")
	return newPrompt(text, text, func(input string) (O, bool) {
		var zero O
		reply := strings.ToLower(strings.TrimSpace(input))
		if reply == "" {
			return zero, false
		}
		found, count := zero, 0
		for _, c := range choices {
			if strings.Contains(strings.ToLower(fmt.Sprint(c)), reply) {
				found = c
				count++
			}
		}
		return found, count == 1
	}, opts)
}

func (p *Prompt[R]) Start() string {
	return p.prompt
}

// Attempts is the number of failed replies still allowed.
func (p *Prompt[R]) Attempts() int {
	return p.attempts
}

// Receive parses one reply. Once the attempts are used up it returns
// ErrTooManyAttempts and the prompt cannot continue.
func (p *Prompt[R]) Receive(input string) (Reply[R], error) {
	if p.attempts <= 0 {
		return Reply[R]{Text: TooManyAttemptsMessage}, ErrTooManyAttempts
	}
	if value, ok := p.parse(input); ok {
		return Reply[R]{Done: true, Value: value}, nil
	}
	p.attempts--
	slog.Debug("Prompt reply not understood", "input", input, "attempts", p.attempts)
	if p.attempts <= 0 {
		return Reply[R]{Text: TooManyAttemptsMessage}, ErrTooManyAttempts
	}
	return Reply[R]{Text: p.retry}, nil
}
