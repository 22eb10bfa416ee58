package mirror

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkihiroSuda/nscache/pathtree"
	"github.com/AkihiroSuda/nscache/snapshot"
)

type countingSource struct {
	values map[string]string
	delay  time.Duration
	err    error
	calls  int32
}

func (s *countingSource) Fetch(path string) ([]byte, bool, error) {
	atomic.AddInt32(&s.calls, 1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.values[path]
	return []byte(v), ok, nil
}

func TestMirrorReadThrough(t *testing.T) {
	src := &countingSource{values: map[string]string{"/a/b": "v"}}
	m := New(pathtree.New(), src)

	n, ok, err := m.Get("/a/b")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := n.StringValue()
	assert.Equal(t, "v", v)

	_, _, err = m.Get("/a/b")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))
	assert.EqualValues(t, 1, m.FetchedBytes())

	a, ok := m.Tree().Get("/a")
	require.True(t, ok)
	assert.False(t, a.HasValue())
}

func TestMirrorAbsent(t *testing.T) {
	src := &countingSource{}
	m := New(pathtree.New(), src)
	for i := 0; i < 3; i++ {
		_, ok, err := m.Get("/nx")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls), "absence is remembered")
	_, ok := m.Tree().Get("/nx")
	assert.False(t, ok)
}

func TestMirrorConcurrentGetSharesFetch(t *testing.T) {
	src := &countingSource{
		values: map[string]string{"/slow": "v"},
		delay:  50 * time.Millisecond,
	}
	m := New(pathtree.New(), src)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := m.Get("/slow")
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))
}

func TestMirrorFetchErrorIsRetried(t *testing.T) {
	boom := errors.New("boom")
	src := &countingSource{values: map[string]string{"/a": "v"}, err: boom}
	m := New(pathtree.New(), src)

	_, _, err := m.Get("/a")
	require.Error(t, err)
	assert.Equal(t, boom, errors.Cause(err))

	src.err = nil
	_, ok, err := m.Get("/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))
}

func TestMirrorInvalidate(t *testing.T) {
	src := &countingSource{values: map[string]string{"/a": "1", "/a/b": "2"}}
	m := New(pathtree.New(), src)
	for _, p := range []string{"/a", "/a/b"} {
		_, ok, err := m.Get(p)
		require.NoError(t, err)
		require.True(t, ok)
	}

	m.Invalidate("/a")
	_, ok := m.Tree().Get("/a/b")
	assert.False(t, ok)

	src.values["/a/b"] = "3"
	n, ok, err := m.Get("/a/b")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := n.StringValue()
	assert.Equal(t, "3", v)
	assert.EqualValues(t, 3, atomic.LoadInt32(&src.calls))

	m.Invalidate("/")
	assert.Equal(t, 0, m.Tree().Root().Children().Size())
}

func TestMirrorPrefersTree(t *testing.T) {
	src := &countingSource{}
	tree := pathtree.New()
	tree.SetString("/local", "cached")
	m := New(tree, src)
	n, ok, err := m.Get("/local")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := n.StringValue()
	assert.Equal(t, "cached", v)
	assert.EqualValues(t, 0, atomic.LoadInt32(&src.calls))
}

func TestSnapshotSource(t *testing.T) {
	s, err := snapshot.Read(strings.NewReader(`
entries:
- path: /a/
  value: hello
- path: /b
`))
	require.NoError(t, err)
	src, err := NewSnapshotSource(s)
	require.NoError(t, err)

	v, ok, err := src.Fetch("/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", string(v))

	_, ok, err = src.Fetch("/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

// gatedSource reads its value when Fetch starts and returns it once release
// is closed.
type gatedSource struct {
	mu      sync.Mutex
	value   string
	started chan struct{}
	release chan struct{}
	calls   int32
}

func (s *gatedSource) set(v string) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

func (s *gatedSource) Fetch(path string) ([]byte, bool, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	v := s.value
	s.mu.Unlock()
	s.started <- struct{}{}
	<-s.release
	return []byte(v), true, nil
}

func TestMirrorInvalidateDuringFetch(t *testing.T) {
	src := &gatedSource{
		value:   "old",
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	m := New(pathtree.New(), src)

	done := make(chan string)
	go func() {
		n, ok, err := m.Get("/a")
		assert.NoError(t, err)
		assert.True(t, ok)
		v, _ := n.StringValue()
		done <- v
	}()
	<-src.started
	src.set("new")
	m.Invalidate("/a")
	close(src.release)

	assert.Equal(t, "new", <-done, "the in-flight result must be discarded")
	n, ok, err := m.Get("/a")
	require.NoError(t, err)
	require.True(t, ok)
	v, _ := n.StringValue()
	assert.Equal(t, "new", v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))
}

func TestMirrorInvalidateParentDuringFetch(t *testing.T) {
	src := &gatedSource{
		value:   "old",
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	m := New(pathtree.New(), src)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := m.Get("/a/b")
		assert.NoError(t, err)
	}()
	<-src.started
	src.set("new")
	m.Invalidate("/a")
	close(src.release)
	<-done

	n, ok := m.Tree().Get("/a/b")
	require.True(t, ok)
	v, _ := n.StringValue()
	assert.Equal(t, "new", v)
}
