package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf(t *testing.T) {
	s := []any{1, 2}
	id1, ok := IdentityOf(s)
	require.True(t, ok)
	id2, ok := IdentityOf(s)
	require.True(t, ok)
	assert.Equal(t, id1, id2)

	other := []any{1, 2}
	id3, _ := IdentityOf(other)
	assert.NotEqual(t, id1, id3)

	_, ok = IdentityOf([]any{})
	assert.False(t, ok, "empty slices carry no identity")
	_, ok = IdentityOf(42)
	assert.False(t, ok)
	_, ok = IdentityOf(nil)
	assert.False(t, ok)

	m := map[string]any{}
	idm, ok := IdentityOf(m)
	require.True(t, ok)
	idm2, _ := IdentityOf(m)
	assert.Equal(t, idm, idm2)
}

func TestSame(t *testing.T) {
	s := []any{1}
	m := map[string]any{"a": 1}
	assert.True(t, Same(s, s))
	assert.False(t, Same(s, []any{1}))
	assert.True(t, Same(m, m))
	assert.False(t, Same(m, map[string]any{"a": 1}))
	assert.True(t, Same(1.5, 1.5))
	assert.False(t, Same(1.5, "1.5"))
	assert.True(t, Same(nil, nil))
	assert.False(t, Same(nil, 0))
	assert.False(t, Same([]any{}, []any{}))
	// does not panic on mixed reference/scalar
	assert.False(t, Same(s, 1))
}

func TestEqualStack(t *testing.T) {
	st := NewEqualStack()
	a := []any{1}
	b := []any{1}
	_, ok := st.Get(a)
	assert.False(t, ok)

	st.Add(a, b)
	got, ok := st.Get(a)
	require.True(t, ok)
	assert.True(t, Same(got, b))
	assert.Equal(t, 1, st.Len())

	st.Add(5, 6)
	assert.Equal(t, 1, st.Len(), "scalars are not registered")

	var nilStack *EqualStack
	_, ok = nilStack.Get(a)
	assert.False(t, ok)
	assert.Zero(t, nilStack.Len())
}

func TestStackPushDoesNotLeakToSiblings(t *testing.T) {
	root := map[string]any{}
	left := map[string]any{}
	right := map[string]any{}

	base := Stack(nil).Push(root)
	l := base.Push(left)
	r := base.Push(right)

	assert.True(t, l.Contains(root))
	assert.True(t, l.Contains(left))
	assert.False(t, l.Contains(right))
	assert.False(t, r.Contains(left))
	assert.False(t, base.Contains(left))
}

func TestCircularSliceIdentity(t *testing.T) {
	c := make([]any, 1)
	c[0] = c
	inner := c[0].([]any)
	assert.True(t, Same(c, inner))
}

func TestWalker(t *testing.T) {
	w := &Walker{}
	assert.False(t, w.IsExited())
	assert.False(t, w.IsContinued())
	w.Continue()
	assert.True(t, w.IsContinued())
	w.Exit()
	assert.True(t, w.IsExited())
}
