// Package mirror fills a pathtree.Tree on demand from a Source.
package mirror

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AkihiroSuda/nscache/pathtree"
)

type fetchStatus int

const (
	fetchStatusUnknown fetchStatus = iota
	fetchStatusFetching
	fetchStatusFetched
	fetchStatusAbsent
)

// Mirror is a read-through cache: lookups are answered from the tree, and
// paths whose node holds no value are fetched from the source once.
// Concurrent lookups of the same path share a single fetch.
type Mirror struct {
	tree   *pathtree.Tree
	source Source

	fetchStatus     map[string]fetchStatus
	invalidated     map[string]bool // invalidated while fetching
	fetchStatusCond *sync.Cond

	fetchedBytes uint64 // atomic
}

func New(tree *pathtree.Tree, source Source) *Mirror {
	return &Mirror{
		tree:            tree,
		source:          source,
		fetchStatus:     make(map[string]fetchStatus, 0),
		invalidated:     make(map[string]bool, 0),
		fetchStatusCond: sync.NewCond(&sync.Mutex{}),
	}
}

// Tree returns the tree filled by m.
func (m *Mirror) Tree() *pathtree.Tree {
	return m.tree
}

// Get returns the node at path, which must be normalized.
// ok is false when neither the tree nor the source has a value for path.
func (m *Mirror) Get(path string) (n *pathtree.Node, ok bool, err error) {
	if n, ok := m.tree.Get(path); ok && n.HasValue() {
		return n, true, nil
	}
	if err := m.fetchIfNotYet(path); err != nil {
		return nil, false, err
	}
	n, ok = m.tree.Get(path)
	if !ok || !n.HasValue() {
		return nil, false, nil
	}
	return n, true, nil
}

// fetchIfNotYet fetches path unless it was already fetched. A fetch that is
// invalidated while in flight is discarded and started over.
func (m *Mirror) fetchIfNotYet(path string) error {
	m.fetchStatusCond.L.Lock()
	defer m.fetchStatusCond.L.Unlock()
	for {
		for m.fetchStatus[path] == fetchStatusFetching {
			m.fetchStatusCond.Wait()
		}
		st := m.fetchStatus[path]
		if st == fetchStatusFetched || st == fetchStatusAbsent {
			return nil
		}
		m.fetchStatus[path] = fetchStatusFetching
		m.fetchStatusCond.L.Unlock()

		v, ok, err := m.source.Fetch(path)

		m.fetchStatusCond.L.Lock()
		m.fetchStatusCond.Broadcast()
		if m.invalidated[path] {
			logrus.Debugf("%s was invalidated while being fetched, fetching again", path)
			delete(m.invalidated, path)
			delete(m.fetchStatus, path)
			continue
		}
		if err != nil {
			delete(m.fetchStatus, path)
			return errors.Wrapf(err, "fetching %s", path)
		}
		if !ok {
			logrus.Debugf("%s is absent at the source", path)
			m.fetchStatus[path] = fetchStatusAbsent
			return nil
		}
		// under the lock, so that Invalidate cannot interleave
		m.tree.Set(path, v)
		m.fetchStatus[path] = fetchStatusFetched
		total := atomic.AddUint64(&m.fetchedBytes, uint64(len(v)))
		logrus.Debugf("Fetched %s, total bytes fetched: %s", path, units.HumanSize(float64(total)))
		return nil
	}
}

// Invalidate drops path and its subtree from the tree, and forgets what was
// fetched for them, so that the next Get goes to the source again. Fetches
// of those paths still in flight are discarded.
func (m *Mirror) Invalidate(path string) {
	m.fetchStatusCond.L.Lock()
	defer m.fetchStatusCond.L.Unlock()
	prefix := pathtree.JoinPath(path, "")
	for p, st := range m.fetchStatus {
		if p != path && !strings.HasPrefix(p, prefix) {
			continue
		}
		if st == fetchStatusFetching {
			m.invalidated[p] = true
			continue
		}
		delete(m.fetchStatus, p)
	}
	if path == pathtree.Delimiter {
		children := m.tree.Root().Children()
		children.Range(func(key string, _ *pathtree.Node) bool {
			children.Delete(key)
			return true
		})
		return
	}
	m.tree.Delete(path)
}

// FetchedBytes returns the number of value bytes fetched from the source.
func (m *Mirror) FetchedBytes() uint64 {
	return atomic.LoadUint64(&m.fetchedBytes)
}
