package recognize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/types"
)

func TestBool(t *testing.T) {
	b := NewBool()
	got, err := b.Matches(context.Background(), "Yes, that's right", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, true, got[0].Value)

	got, err = b.Matches(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.TermMatch{{Start: 0, Length: 4, Value: false, Confidence: 1}}, got)

	assert.Equal(t, "Yes", b.ValueDescription(true))
	assert.Equal(t, []any{true, false}, b.Values())
}

func TestNumber(t *testing.T) {
	n := NewNumber(1, 10)
	got, err := n.Matches(context.Background(), "make it 3 or 12", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.TermMatch{{Start: 8, Length: 1, Value: 3, Confidence: 1}}, got)

	got, err = NewUnboundedNumber().Matches(context.Background(), "-4", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.TermMatch{{Start: 0, Length: 2, Value: -4, Confidence: 1}}, got)

	got, err = n.Matches(context.Background(), "-4", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, "Please enter a number between 1 and 10.", n.Help(nil))
	assert.Nil(t, n.Values())
}

func TestText(t *testing.T) {
	got, err := NewText().Matches(context.Background(), "  extra mayo ", nil)
	require.NoError(t, err)
	assert.Equal(t, []types.TermMatch{{Start: 2, Length: 10, Value: "extra mayo", Confidence: 1}}, got)

	got, err = NewText().Matches(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
