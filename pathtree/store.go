package pathtree

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// ChildStore maps child segment names to child nodes.
// Every operation is atomic with respect to a single key, and implementations
// must be safe for concurrent use without external locking.
type ChildStore interface {
	Load(key string) (*Node, bool)
	// Store sets the child for key, replacing any existing one.
	Store(key string, n *Node)
	// LoadOrCreate returns the existing child for key, or atomically stores
	// and returns the node built by create. created reports which happened.
	LoadOrCreate(key string, create func() *Node) (n *Node, created bool)
	Delete(key string)
	// Range calls f for each child until f returns false.
	Range(f func(key string, n *Node) bool)
	Size() int
}

// StoreFactory builds an empty ChildStore for a new node.
type StoreFactory func() ChildStore

type xsyncStore struct {
	m *xsync.Map[string, *Node]
}

// NewXsyncStore returns a lock-free ChildStore. It is the default.
func NewXsyncStore() ChildStore {
	return &xsyncStore{m: xsync.NewMap[string, *Node]()}
}

func (s *xsyncStore) Load(key string) (*Node, bool) {
	return s.m.Load(key)
}

func (s *xsyncStore) Store(key string, n *Node) {
	s.m.Store(key, n)
}

func (s *xsyncStore) LoadOrCreate(key string, create func() *Node) (*Node, bool) {
	n, loaded := s.m.LoadOrCompute(key, func() (*Node, bool) {
		return create(), false
	})
	return n, !loaded
}

func (s *xsyncStore) Delete(key string) {
	s.m.Delete(key)
}

func (s *xsyncStore) Range(f func(key string, n *Node) bool) {
	s.m.Range(f)
}

func (s *xsyncStore) Size() int {
	return s.m.Size()
}

type mutexStore struct {
	mu sync.RWMutex
	m  map[string]*Node
}

// NewMutexStore returns a ChildStore guarded by a single RWMutex.
// It is cheaper than NewXsyncStore for trees with little write contention.
func NewMutexStore() ChildStore {
	return &mutexStore{m: make(map[string]*Node)}
}

func (s *mutexStore) Load(key string) (*Node, bool) {
	s.mu.RLock()
	n, ok := s.m[key]
	s.mu.RUnlock()
	return n, ok
}

func (s *mutexStore) Store(key string, n *Node) {
	s.mu.Lock()
	s.m[key] = n
	s.mu.Unlock()
}

func (s *mutexStore) LoadOrCreate(key string, create func() *Node) (*Node, bool) {
	if n, ok := s.Load(key); ok {
		return n, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.m[key]; ok {
		return n, false
	}
	n := create()
	s.m[key] = n
	return n, true
}

func (s *mutexStore) Delete(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Range iterates over a copy so that f may modify the store.
func (s *mutexStore) Range(f func(key string, n *Node) bool) {
	s.mu.RLock()
	snapshot := make(map[string]*Node, len(s.m))
	for k, n := range s.m {
		snapshot[k] = n
	}
	s.mu.RUnlock()
	for k, n := range snapshot {
		if !f(k, n) {
			return
		}
	}
}

func (s *mutexStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
