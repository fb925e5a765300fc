package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
)

var _ adk.Agent = (*Agent[any])(nil)

// Agent exposes a FormFlow as an adk agent. The last input message is the
// user's reply; the session is looked up by the key in the context.
type Agent[T any] struct {
	name        string
	description string
	flow        *FormFlow[T]
	sessions    *SessionStore[T]
	locks       keyLocks
}

// NewAgent wraps flow; a nil sessions store keeps sessions in memory.
func NewAgent[T any](name, description string, flow *FormFlow[T], sessions *SessionStore[T]) *Agent[T] {
	a := &Agent[T]{name: name, description: description, flow: flow, sessions: sessions}
	if a.sessions == nil {
		a.sessions = NewMemorySessionStore[T]()
	}
	return a
}

func (a *Agent[T]) Name(context.Context) string { return a.name }

func (a *Agent[T]) Description(context.Context) string { return a.description }

func (a *Agent[T]) Sessions() *SessionStore[T] {
	return a.sessions
}

func (a *Agent[T]) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer gen.Close()
		defer func() {
			if e := recover(); e != nil {
				gen.Send(a.failed(fmt.Errorf("recover from panic: %v", e)))
			}
		}()
		gen.Send(a.turn(ctx, input))
	}()
	return iter
}

func (a *Agent[T]) turn(ctx context.Context, input *adk.AgentInput) *adk.AgentEvent {
	reply, ok := lastUserText(input)
	if !ok {
		return a.failed(errors.New("no messages in input"))
	}
	resp, err := a.invoke(ctx, reply)
	if err != nil {
		return a.failed(fmt.Errorf("flow invoke failed: %w", err))
	}
	msg := schema.AssistantMessage(resp.Message, nil)
	return &adk.AgentEvent{
		AgentName: a.name,
		Output: &adk.AgentOutput{
			MessageOutput: &adk.MessageVariant{Message: msg, Role: msg.Role},
		},
	}
}

func (a *Agent[T]) failed(err error) *adk.AgentEvent {
	return &adk.AgentEvent{AgentName: a.name, Err: err}
}

// lastUserText picks the newest user message, or the newest message of any
// role when the input carries no user turn.
func lastUserText(input *adk.AgentInput) (string, bool) {
	if input == nil || len(input.Messages) == 0 {
		return "", false
	}
	for i := len(input.Messages) - 1; i >= 0; i-- {
		if m := input.Messages[i]; m != nil && m.Role == schema.User {
			return m.Content, true
		}
	}
	last := input.Messages[len(input.Messages)-1]
	if last == nil {
		return "", false
	}
	return last.Content, true
}

// invoke runs one turn with the session for the context's key held
// exclusively, so concurrent replies to one session apply in order.
func (a *Agent[T]) invoke(ctx context.Context, userInput string) (*Response[T], error) {
	key, _ := sessionKeyOrDefault(ctx)
	defer a.locks.lock(key)()

	sess, err := a.sessions.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if sess != nil && sess.Closed() {
		slog.Debug("Session closed, starting over", "key", key)
		sess = nil
	}
	resp, err := a.flow.Invoke(ctx, &Request[T]{Session: sess, UserInput: userInput})
	if err != nil {
		return nil, err
	}
	if err := a.sessions.Write(ctx, resp.Session); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return resp, nil
}
