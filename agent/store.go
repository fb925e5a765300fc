package agent

import (
	"context"
	"errors"
	"fmt"
)

var errNoKey = errors.New("key not found")

// KeyFunc extracts the routing key for the current request.
type KeyFunc func(ctx context.Context) (string, bool)

// Store scopes a Cache to a namespace and a key taken from the context.
type Store[S any] struct {
	core      Cache[S]
	namespace string
	keyOf     KeyFunc
}

func NewStore[S any](core Cache[S], namespace string, keyOf KeyFunc) Store[S] {
	return Store[S]{core: core, namespace: namespace, keyOf: keyOf}
}

func (s Store[S]) resolve(ctx context.Context) (string, error) {
	if k, ok := s.keyOf(ctx); ok {
		return fmt.Sprintf("%s:%s", s.namespace, k), nil
	}
	return "", fmt.Errorf("%s: %w", s.namespace, errNoKey)
}

func (s Store[S]) Set(ctx context.Context, val S) error {
	k, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	return s.core.Set(ctx, k, val)
}

func (s Store[S]) Get(ctx context.Context) (val S, ok bool, err error) {
	k, err := s.resolve(ctx)
	if err != nil {
		return val, false, err
	}
	return s.core.Get(ctx, k)
}

func (s Store[S]) Del(ctx context.Context) error {
	k, err := s.resolve(ctx)
	if err != nil {
		return err
	}
	return s.core.Del(ctx, k)
}
