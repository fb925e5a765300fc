package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tbxark/formdialog/field"
	"github.com/tbxark/formdialog/recognize"
)

type order struct {
	Bread    string   `json:"bread,omitempty"`
	Toppings []string `json:"toppings,omitempty"`
}

type recordingManager struct {
	submitted []order
	cancelled []order
}

func (m *recordingManager) Submit(ctx context.Context, form order) error {
	m.submitted = append(m.submitted, form)
	return nil
}

func (m *recordingManager) Cancel(ctx context.Context, form order) error {
	m.cancelled = append(m.cancelled, form)
	return nil
}

func breadField(opts ...field.Option[order]) *field.JSONField[order] {
	base := []field.Option[order]{
		field.WithPointer[order]("/bread"),
		field.WithRecognizer[order](recognize.NewEnumeration([]any{"white", "wheat", "rye"})),
	}
	return field.New[order]("bread", append(base, opts...)...)
}

func toppingsField() *field.JSONField[order] {
	values := []any{"onion", "pepper", "sweet-potato", "sweet-corn"}
	return field.New[order]("toppings",
		field.WithPointer[order]("/toppings"),
		field.WithMultiple[order](true),
		field.WithRecognizer[order](recognize.NewEnumeration(values, recognize.WithMultiple(true))),
	)
}

func orderForm(t *testing.T, bread ...field.Option[order]) *Form[order] {
	t.Helper()
	form, err := NewBuilder[order]().
		Message("Welcome to the sandwich bar!", nil).
		Field(breadField(bread...), toppingsField()).
		Confirm().
		Build()
	require.NoError(t, err)
	return form
}

// conversation feeds replies to a flow and keeps the latest session.
type conversation struct {
	t       *testing.T
	flow    *FormFlow[order]
	session *Session[order]
}

func newConversation(t *testing.T, flow *FormFlow[order]) (*conversation, string) {
	t.Helper()
	c := &conversation{t: t, flow: flow}
	return c, c.say("")
}

func (c *conversation) say(input string) string {
	c.t.Helper()
	resp, err := c.flow.Invoke(context.Background(), &Request[order]{Session: c.session, UserInput: input})
	require.NoError(c.t, err)
	c.session = resp.Session
	return resp.Message
}

var errOutOfRye = errors.New("We are out of rye.")
