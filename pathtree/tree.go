// Package pathtree implements an in-memory mirror of a remote hierarchical
// namespace, such as the znode tree of ZooKeeper.
//
// Every node keeps its children in a concurrent store, so goroutines may
// insert, look up and delete paths without a global lock. Operations on a
// multi-segment path are not atomic as a whole: a reader may observe the
// intermediate nodes of a concurrent Set before its leaf is attached.
//
// Paths given to the tree must be normalized (see NormalizePath).
// Values are opaque byte slices.
package pathtree

import (
	"sort"
)

// Tree owns the root of a cached namespace.
type Tree struct {
	root *Node
}

// Option configures a Tree.
type Option func(*options)

type options struct {
	newStore StoreFactory
}

// WithChildStore selects the ChildStore implementation used by every node of the tree.
func WithChildStore(f StoreFactory) Option {
	return func(o *options) {
		o.newStore = f
	}
}

// New returns an empty tree.
func New(opts ...Option) *Tree {
	o := options{newStore: NewXsyncStore}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{root: NewNode(Delimiter, o.newStore)}
}

// Root returns the root node, whose key and path are Delimiter.
func (t *Tree) Root() *Node {
	return t.root
}

// Set stores value at path and returns the node holding it.
func (t *Tree) Set(path string, value []byte) *Node {
	return t.root.Set(NewCursor(path), value)
}

// SetString stores s, encoded as UTF-8, at path.
func (t *Tree) SetString(path, s string) *Node {
	return t.Set(path, []byte(s))
}

// Ensure returns the node at path, creating it and its missing ancestors
// without values.
func (t *Tree) Ensure(path string) *Node {
	return t.root.Ensure(NewCursor(path))
}

// Get returns the node at path.
func (t *Tree) Get(path string) (*Node, bool) {
	return t.root.Get(NewCursor(path))
}

// Delete removes the node at path and its subtree.
func (t *Tree) Delete(path string) bool {
	return t.root.Delete(NewCursor(path))
}

// Walk calls fn for every node reachable from the root, parents before
// children and siblings in key order, starting with the root itself.
// Walk stops at the first error returned by fn.
func (t *Tree) Walk(fn func(n *Node) error) error {
	return WalkFrom(t.root, fn)
}

// WalkFrom is like Tree.Walk, starting at n.
func WalkFrom(n *Node, fn func(n *Node) error) error {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(cur); err != nil {
			return err
		}
		var children []*Node
		cur.children.Range(func(_ string, child *Node) bool {
			children = append(children, child)
			return true
		})
		// pushed in reverse so that the smallest key is popped first
		sort.Slice(children, func(i, j int) bool {
			return children[i].key > children[j].key
		})
		stack = append(stack, children...)
	}
	return nil
}
