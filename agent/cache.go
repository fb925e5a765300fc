package agent

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is the key/value backend sessions and histories are kept in.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MemoryCache is an unbounded Cache backed by a sync.Map.
type MemoryCache[S any] struct {
	entries sync.Map
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{}
}

func (m *MemoryCache[S]) Set(_ context.Context, key string, val S) error {
	m.entries.Store(key, val)
	return nil
}

func (m *MemoryCache[S]) Get(_ context.Context, key string) (val S, ok bool, err error) {
	v, found := m.entries.Load(key)
	if !found {
		return val, false, nil
	}
	return v.(S), true, nil
}

func (m *MemoryCache[S]) Del(_ context.Context, key string) error {
	m.entries.Delete(key)
	return nil
}

func (m *MemoryCache[S]) Exists(_ context.Context, key string) (bool, error) {
	_, found := m.entries.Load(key)
	return found, nil
}

// LRUCache holds at most size entries, evicting the least recently used.
type LRUCache[S any] struct {
	c *lru.Cache[string, S]
}

func NewLRUCache[S any](size int) (*LRUCache[S], error) {
	c, err := lru.New[string, S](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache[S]{c: c}, nil
}

func (l *LRUCache[S]) Set(ctx context.Context, key string, val S) error {
	l.c.Add(key, val)
	return nil
}

func (l *LRUCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	val, ok := l.c.Get(key)
	return val, ok, nil
}

func (l *LRUCache[S]) Del(ctx context.Context, key string) error {
	l.c.Remove(key)
	return nil
}

func (l *LRUCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	return l.c.Contains(key), nil
}

func (l *LRUCache[S]) Len() int {
	return l.c.Len()
}

var (
	_ Cache[int] = (*MemoryCache[int])(nil)
	_ Cache[int] = (*LRUCache[int])(nil)
)
