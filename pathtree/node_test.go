package pathtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachChild(t *testing.T) {
	root := NewNode(Delimiter, nil)
	a := NewNode("a", nil)
	assert.Equal(t, "a", a.Path(), "detached node path is its key")

	root.AttachChild(a)
	assert.Equal(t, "/a", a.Path())

	b := NewNodeWithValue("b", []byte("v"), nil)
	a.AttachChild(b)
	assert.Equal(t, "/a/b", b.Path())

	got, ok := root.Get(NewCursor("/a/b"))
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestAttachChildOverwrites(t *testing.T) {
	root := NewNode(Delimiter, nil)
	root.AttachChild(NewNodeWithValue("a", []byte("old"), nil))
	replacement := NewNodeWithValue("a", []byte("new"), nil)
	root.AttachChild(replacement)

	assert.Equal(t, 1, root.Children().Size())
	got, ok := root.Child("a")
	require.True(t, ok)
	assert.Same(t, replacement, got)
}

func TestAttachChildKeepsGrandchildPaths(t *testing.T) {
	x := NewNode("x", nil)
	y := NewNode("y", nil)
	x.AttachChild(y)
	assert.Equal(t, "x/y", y.Path())

	root := NewNode(Delimiter, nil)
	root.AttachChild(x)
	assert.Equal(t, "/x", x.Path())
	// not recomputed on re-parenting
	assert.Equal(t, "x/y", y.Path())
}

func TestNodeValue(t *testing.T) {
	n := NewNode("a", nil)
	_, ok := n.Value()
	assert.False(t, ok)
	assert.False(t, n.HasValue())

	n.SetValue([]byte{})
	v, ok := n.Value()
	assert.True(t, ok, "an empty value is still a value")
	assert.Empty(t, v)

	n.SetValue(nil)
	assert.True(t, n.HasValue())

	n.SetValue([]byte("héllo"))
	s, ok := n.StringValue()
	assert.True(t, ok)
	assert.Equal(t, "héllo", s)
}

func TestNodeSetOnSelf(t *testing.T) {
	root := NewNode(Delimiter, nil)
	got := root.Set(NewCursor(Delimiter), []byte("v"))
	assert.Same(t, root, got)
	s, _ := root.StringValue()
	assert.Equal(t, "v", s)
}

func TestNodeGetRoot(t *testing.T) {
	root := NewNode(Delimiter, nil)
	got, ok := root.Get(NewCursor(Delimiter))
	require.True(t, ok)
	assert.Same(t, root, got)
}

func TestNodeDeleteSelfIsNoop(t *testing.T) {
	root := NewNode(Delimiter, nil)
	root.Set(NewCursor("/a"), []byte("v"))
	assert.False(t, root.Delete(NewCursor(Delimiter)))
	_, ok := root.Get(NewCursor("/a"))
	assert.True(t, ok)
}

func TestNodeSetCreatedPaths(t *testing.T) {
	root := NewNode(Delimiter, nil)
	leaf := root.Set(NewCursor("/a/b/c"), []byte("v"))
	assert.Equal(t, "/a/b/c", leaf.Path())
	assert.Equal(t, "c", leaf.Key())

	b, ok := root.Get(NewCursor("/a/b"))
	require.True(t, ok)
	assert.Equal(t, "/a/b", b.Path())
}

func TestNodeEnsure(t *testing.T) {
	root := NewNode(Delimiter, nil)
	root.Set(NewCursor("/a"), []byte("v"))

	b := root.Ensure(NewCursor("/a/b"))
	assert.Equal(t, "/a/b", b.Path())
	assert.False(t, b.HasValue())

	a := root.Ensure(NewCursor("/a"))
	s, ok := a.StringValue()
	assert.True(t, ok, "Ensure must not touch existing values")
	assert.Equal(t, "v", s)
}
