package recognize

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tbxark/formdialog/types"
)

// Cached memoizes successful Matches calls of an expensive recognizer, such
// as a model-backed one, so repeated turns with the same reply cost nothing.
type Cached struct {
	Recognizer
	cache *lru.Cache[string, []types.TermMatch]
}

func NewCached(base Recognizer, size int) (*Cached, error) {
	cache, err := lru.New[string, []types.TermMatch](size)
	if err != nil {
		return nil, fmt.Errorf("create match cache: %w", err)
	}
	return &Cached{Recognizer: base, cache: cache}, nil
}

func (c *Cached) Matches(ctx context.Context, input string, current any) ([]types.TermMatch, error) {
	key := fmt.Sprintf("%s\x00%#v", input, current)
	if matches, ok := c.cache.Get(key); ok {
		return append([]types.TermMatch(nil), matches...), nil
	}
	matches, err := c.Recognizer.Matches(ctx, input, current)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append([]types.TermMatch(nil), matches...))
	return matches, nil
}

func (c *Cached) Len() int {
	return c.cache.Len()
}
