package snapshot

import (
	"github.com/AkihiroSuda/nscache/pathtree"
)

// FromTree captures tree. Nodes holding a value are recorded with their
// digest. Value-less nodes are recorded only when they are leaves, since
// inner ones are implied by their descendants. The root is recorded only
// when it holds a value.
func FromTree(tree *pathtree.Tree) *Snapshot {
	s := &Snapshot{}
	tree.Walk(func(n *pathtree.Node) error {
		if v, ok := n.Value(); ok {
			s.Entries = append(s.Entries, NewEntry(n.Path(), v))
			return nil
		}
		if n == tree.Root() || n.Children().Size() > 0 {
			return nil
		}
		s.Entries = append(s.Entries, Entry{Path: n.Path()})
		return nil
	})
	return s
}
