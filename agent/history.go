package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepSystemLastNTrimmer keeps every system message and the last N turns
// of the conversation around them.
type KeepSystemLastNTrimmer struct {
	N int
}

func (t KeepSystemLastNTrimmer) Trim(history []*schema.Message) []*schema.Message {
	conversational := 0
	for _, m := range history {
		if m.Role != schema.System {
			conversational++
		}
	}
	drop := conversational - max(t.N, 0)
	if drop <= 0 {
		return history
	}
	out := make([]*schema.Message, 0, len(history)-drop)
	for _, m := range history {
		if m.Role != schema.System && drop > 0 {
			drop--
			continue
		}
		out = append(out, m)
	}
	return out
}

// HistoryStore keeps the transcript of each session for the adk agent.
type HistoryStore struct {
	store   Store[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(core Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{
		store:   NewStore(core, "agent:history", sessionKeyOrDefault),
		trimmer: trimmer,
	}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(NewMemoryCache[[]*schema.Message](), trimmer)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, _, err := s.store.Get(ctx)
	return hist, err
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

// Append adds msgs, skipping nil ones and exact repeats of the previous
// message, then trims and saves. It returns the saved transcript.
func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	hist = append([]*schema.Message(nil), hist...)
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if n := len(hist); n > 0 && hist[n-1].Role == msg.Role && hist[n-1].Content == msg.Content {
			continue
		}
		hist = append(hist, msg)
	}
	if s.trimmer != nil {
		hist = s.trimmer.Trim(hist)
	}
	if err := s.store.Set(ctx, hist); err != nil {
		return nil, err
	}
	return hist, nil
}
