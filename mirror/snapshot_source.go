package mirror

import (
	"github.com/AkihiroSuda/nscache/snapshot"
)

// SnapshotSource serves the entries of a snapshot. It lacks caching of its
// own. Use with Mirror.
type SnapshotSource struct {
	values map[string][]byte
}

// NewSnapshotSource verifies every entry of s and indexes its values by path.
func NewSnapshotSource(s *snapshot.Snapshot) (*SnapshotSource, error) {
	src := &SnapshotSource{
		values: make(map[string][]byte, len(s.Entries)),
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		p, value, ok, err := e.Verify()
		if err != nil {
			return nil, err
		}
		if ok {
			src.values[p] = value
		}
	}
	return src, nil
}

func (s *SnapshotSource) Fetch(path string) ([]byte, bool, error) {
	v, ok := s.values[path]
	return v, ok, nil
}
