package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city,omitempty"`
}

type order struct {
	Bread    string            `json:"bread,omitempty"`
	Toppings []string          `json:"toppings,omitempty"`
	Count    int               `json:"count,omitempty"`
	Address  *address          `json:"address,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
	Internal string            `json:"-"`
	hidden   string
}

func TestReplaceAndRemove(t *testing.T) {
	o, err := Replace(order{}, "/bread", "rye")
	require.NoError(t, err)
	assert.Equal(t, "rye", o.Bread)

	o, err = Replace(o, "/toppings", []any{"onion", "pepper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"onion", "pepper"}, o.Toppings)

	o, err = Replace(o, "/bread", "white")
	require.NoError(t, err)
	assert.Equal(t, "white", o.Bread)

	o, err = Remove(o, "/bread")
	require.NoError(t, err)
	assert.Empty(t, o.Bread)

	o, err = Remove(o, "/bread")
	require.NoError(t, err)
	assert.Equal(t, []string{"onion", "pepper"}, o.Toppings)
}

func TestReplaceTypeMismatch(t *testing.T) {
	_, err := Replace(order{}, "/count", "many")
	assert.Error(t, err)
}

func TestReplacePointerModel(t *testing.T) {
	o, err := Replace(&order{Count: 2}, "/bread", "rye")
	require.NoError(t, err)
	assert.Equal(t, &order{Bread: "rye", Count: 2}, o)
}

func TestRead(t *testing.T) {
	value, ok, err := Read(order{Toppings: []string{"onion"}}, "/toppings/0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "onion", value)

	_, ok, err = Read(order{}, "/bread")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupEscapes(t *testing.T) {
	doc := map[string]any{"a/b": map[string]any{"c~d": 1.0}}
	value, ok := Lookup(doc, "/a~1b/c~0d")
	assert.True(t, ok)
	assert.Equal(t, 1.0, value)

	_, ok = Lookup(doc, "a")
	assert.False(t, ok)
}

func TestPrefilled(t *testing.T) {
	got, err := Prefilled(order{Bread: "rye", Address: &address{City: "Oslo"}, Notes: map[string]string{"x": ""}})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"/address/city", "/bread"}, got); diff != "" {
		t.Errorf("prefilled mismatch (-want +got):\n%s", diff)
	}
}

func TestPointers(t *testing.T) {
	want := []string{
		"/bread",
		"/toppings",
		"/toppings/-",
		"/count",
		"/address",
		"/address/city",
		"/notes",
		"/notes/*",
	}
	if diff := cmp.Diff(want, Pointers[*order]()); diff != "" {
		t.Errorf("pointers mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Pointers[string]())
}

func TestValidatePointer(t *testing.T) {
	allowed := Pointers[order]()
	assert.NoError(t, ValidatePointer("/bread", allowed))
	assert.NoError(t, ValidatePointer("/toppings/3", allowed))
	assert.NoError(t, ValidatePointer("/notes/extra", allowed))
	assert.Error(t, ValidatePointer("/crust", allowed))
	assert.Error(t, ValidatePointer("/bread/0", allowed))
	assert.NoError(t, ValidatePointer("/anything", nil))
}

func TestIsZero(t *testing.T) {
	for _, v := range []any{nil, "", 0.0, false, []any{}, map[string]any{}} {
		assert.True(t, IsZero(v), "%#v", v)
	}
	for _, v := range []any{"x", 1.0, true, []any{1.0}} {
		assert.False(t, IsZero(v), "%#v", v)
	}
}
