package pathtree

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Node is a node of the cached namespace.
//
// The key is immutable. The value and the absolute path may be replaced while
// other goroutines read them. The absolute path is only meaningful once the
// node has been attached to a parent.
type Node struct {
	key      string
	path     atomic.Pointer[string]
	value    atomic.Pointer[[]byte] // nil: no value
	children ChildStore
	newStore StoreFactory
}

// NewNode returns a detached node without a value.
// Its children are kept in a store built by newStore, or NewXsyncStore if nil.
// Nodes created implicitly below it use the same factory.
func NewNode(key string, newStore StoreFactory) *Node {
	if newStore == nil {
		newStore = NewXsyncStore
	}
	n := &Node{
		key:      key,
		children: newStore(),
		newStore: newStore,
	}
	n.path.Store(&key)
	return n
}

// NewNodeWithValue returns a detached node holding value.
func NewNodeWithValue(key string, value []byte, newStore StoreFactory) *Node {
	n := NewNode(key, newStore)
	n.SetValue(value)
	return n
}

// Key returns the segment of n.
func (n *Node) Key() string {
	return n.key
}

// Path returns the absolute path of n as of its last attachment.
func (n *Node) Path() string {
	return *n.path.Load()
}

// Value returns the payload of n. ok is false for nodes that never received
// a value, such as intermediate nodes created by Set.
// The returned slice must not be modified.
func (n *Node) Value() (value []byte, ok bool) {
	p := n.value.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// StringValue returns the payload of n decoded as UTF-8.
func (n *Node) StringValue() (string, bool) {
	v, ok := n.Value()
	return string(v), ok
}

// HasValue reports whether n holds a value. An empty value counts.
func (n *Node) HasValue() bool {
	return n.value.Load() != nil
}

// SetValue replaces the payload of n. value is stored as is, without copying.
func (n *Node) SetValue(value []byte) {
	n.value.Store(&value)
}

// Child returns the direct child of n named key.
func (n *Node) Child(key string) (*Node, bool) {
	return n.children.Load(key)
}

// Children returns the store holding the direct children of n.
func (n *Node) Children() ChildStore {
	return n.children
}

// AttachChild registers child under its key, replacing any child with the
// same key, and recomputes the absolute path of child.
//
// Descendants of child keep their previous paths; callers moving a whole
// subtree must fix them up themselves. Attaching the same node concurrently
// from several goroutines is not supported.
func (n *Node) AttachChild(child *Node) {
	n.children.Store(child.key, child)
	p := JoinPath(n.Path(), child.key)
	child.path.Store(&p)
}

// findOrCreateChild returns the child named key, creating and attaching a
// value-less one if it is missing.
func (n *Node) findOrCreateChild(key string) (*Node, bool) {
	return n.children.LoadOrCreate(key, func() *Node {
		child := NewNode(key, n.newStore)
		p := JoinPath(n.Path(), key)
		child.path.Store(&p)
		return child
	})
}

// Ensure returns the node addressed by c, relative to n, creating every
// missing segment on the way. Created nodes hold no value.
func (n *Node) Ensure(c *Cursor) *Node {
	cur := n
	for !c.IsAtEnd() {
		c.Advance()
		child, created := cur.findOrCreateChild(c.Current())
		if created {
			logrus.Debugf("pathtree: created %s", child.Path())
		}
		cur = child
	}
	return cur
}

// Set stores value on the node addressed by c, relative to n, creating every
// missing segment on the way. Created intermediate nodes hold no value.
// It returns the node that received value.
func (n *Node) Set(c *Cursor, value []byte) *Node {
	target := n.Ensure(c)
	target.SetValue(value)
	return target
}

// Get returns the node addressed by c, relative to n.
// A cursor for the root path addresses n itself.
func (n *Node) Get(c *Cursor) (*Node, bool) {
	cur := n
	for !c.IsAtEnd() {
		c.Advance()
		child, ok := cur.children.Load(c.Current())
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// Delete removes the node addressed by c, relative to n, together with its
// subtree. Deleting a missing path is a no-op, and so is a cursor addressing
// n itself. It reports whether a node was removed.
func (n *Node) Delete(c *Cursor) bool {
	cur := n
	for !c.IsAtEnd() {
		c.Advance()
		key := c.Current()
		child, ok := cur.children.Load(key)
		if !ok {
			return false
		}
		if c.IsAtEnd() {
			cur.children.Delete(key)
			return true
		}
		cur = child
	}
	return false
}
