package agent

import (
	"context"

	"github.com/google/uuid"
)

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey routes session and history storage to key.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the routing key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(sessionKeyContext{}).(string)
	return key, ok && key != ""
}

// NewSessionKey returns a fresh random routing key.
func NewSessionKey() string {
	return uuid.NewString()
}

func sessionKeyOrDefault(ctx context.Context) (string, bool) {
	if key, ok := SessionKeyFromContext(ctx); ok {
		return key, true
	}
	return defaultSessionKey, true
}

// SessionStore keeps one session per routing key.
type SessionStore[T any] struct {
	store Store[*Session[T]]
}

func NewSessionStore[T any](core Cache[*Session[T]]) *SessionStore[T] {
	return &SessionStore[T]{store: NewStore(core, "agent:session", sessionKeyOrDefault)}
}

func NewMemorySessionStore[T any]() *SessionStore[T] {
	return NewSessionStore[T](NewMemoryCache[*Session[T]]())
}

// NewLRUSessionStore forgets the least recently used sessions beyond size.
func NewLRUSessionStore[T any](size int) (*SessionStore[T], error) {
	core, err := NewLRUCache[*Session[T]](size)
	if err != nil {
		return nil, err
	}
	return NewSessionStore[T](core), nil
}

// Read returns the stored session, or nil when there is none.
func (s *SessionStore[T]) Read(ctx context.Context) (*Session[T], error) {
	sess, ok, err := s.store.Get(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return sess, nil
}

func (s *SessionStore[T]) Write(ctx context.Context, sess *Session[T]) error {
	return s.store.Set(ctx, sess)
}

func (s *SessionStore[T]) Remove(ctx context.Context) error {
	return s.store.Del(ctx)
}
