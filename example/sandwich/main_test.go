package main

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/agent"
)

// brokenCache accepts writes but cannot delete.
type brokenCache struct {
	*agent.MemoryCache[[]*schema.Message]
}

func (brokenCache) Del(context.Context, string) error {
	return errors.New("disk full")
}

func TestForgetOrder(t *testing.T) {
	ctx := agent.WithSessionKey(context.Background(), agent.NewSessionKey())
	history := agent.NewMemoryHistoryStore(agent.KeepSystemLastNTrimmer{N: 10})
	sessions := agent.NewMemorySessionStore[Sandwich]()

	_, err := history.Append(ctx, schema.UserMessage("hello"))
	require.NoError(t, err)
	require.NoError(t, sessions.Write(ctx, &agent.Session[Sandwich]{}))

	require.NoError(t, forgetOrder(ctx, history, sessions))
	msgs, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	sess, err := sessions.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestForgetOrderReportsErrors(t *testing.T) {
	ctx := agent.WithSessionKey(context.Background(), agent.NewSessionKey())
	history := agent.NewHistoryStore(brokenCache{agent.NewMemoryCache[[]*schema.Message]()}, agent.KeepSystemLastNTrimmer{N: 10})

	err := forgetOrder(ctx, history, agent.NewMemorySessionStore[Sandwich]())
	assert.ErrorContains(t, err, "clear history")
	assert.ErrorContains(t, err, "disk full")
}
