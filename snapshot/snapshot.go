// Package snapshot reads and writes YAML snapshots of a cached namespace.
//
// A snapshot looks like:
//
//	entries:
//	- path: /config/db
//	  data: amRiYzpteXNxbDovL2RiOjMzMDY=
//	  digest: sha256:...
//	- path: /config/owner
//	  value: dba-team
//	- path: /config/empty
//
// Values are opaque bytes and are written base64-encoded in data.
// Hand-written snapshots may use value instead, holding UTF-8 text.
// An entry with neither describes a node that holds no value.
// Digests cover the raw value bytes; they are optional and only SHA256 is supported.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"io"
	"io/ioutil"
	"os"

	progressbar "github.com/cheggaaa/pb"
	"github.com/goccy/go-yaml"
	"github.com/opencontainers/go-digest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/AkihiroSuda/nscache/pathtree"
)

// ErrDigestMismatch is returned by Apply when a value does not match its digest.
var ErrDigestMismatch = errors.New("digest mismatch")

type Entry struct {
	Path   string        `yaml:"path"`
	Data   *string       `yaml:"data,omitempty"`  // base64
	Value  *string       `yaml:"value,omitempty"` // UTF-8 text
	Digest digest.Digest `yaml:"digest,omitempty"`
}

// NewEntry returns the entry recording value at path.
func NewEntry(path string, value []byte) Entry {
	data := base64.StdEncoding.EncodeToString(value)
	return Entry{
		Path:   path,
		Data:   &data,
		Digest: digest.FromBytes(value),
	}
}

type Snapshot struct {
	Entries []Entry `yaml:"entries"`
}

func Read(r io.Reader) (*Snapshot, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrap(err, "parsing snapshot")
	}
	return &s, nil
}

func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return s, nil
}

func (s *Snapshot) Write(w io.Writer) error {
	b, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	_, err = w.Write(b)
	return err
}

// WriteFile replaces path atomically.
func (s *Snapshot) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Verify checks that the entry is well formed and that its value matches its
// digest. It returns the normalized path of the entry and its decoded value;
// ok is false for an entry without value.
func (e *Entry) Verify() (path string, value []byte, ok bool, err error) {
	p, err := pathtree.NormalizePath(e.Path)
	if err != nil {
		return "", nil, false, err
	}
	switch {
	case e.Data != nil && e.Value != nil:
		return "", nil, false, errors.Errorf("entry %s: both data and value are set", p)
	case e.Data != nil:
		if value, err = base64.StdEncoding.DecodeString(*e.Data); err != nil {
			return "", nil, false, errors.Wrapf(err, "entry %s: decoding data", p)
		}
		ok = true
	case e.Value != nil:
		value, ok = []byte(*e.Value), true
	}
	if e.Digest == "" {
		return p, value, ok, nil
	}
	if err := e.Digest.Validate(); err != nil {
		return "", nil, false, errors.Wrapf(err, "entry %s", p)
	}
	if e.Digest.Algorithm() != digest.SHA256 {
		return "", nil, false, errors.Errorf("entry %s: unsupported digest algorithm %s", p, e.Digest.Algorithm())
	}
	if !ok {
		return "", nil, false, errors.Errorf("entry %s: digest without value", p)
	}
	if got := digest.FromBytes(value); got != e.Digest {
		return "", nil, false, errors.Wrapf(ErrDigestMismatch, "entry %s: expected %s, got %s", p, e.Digest, got)
	}
	return p, value, true, nil
}

type Options struct {
	// Progress shows a progress bar on stderr.
	Progress bool
}

// Apply stores every entry of s into tree. An entry without value creates
// its node if missing and leaves an existing value alone.
// Apply stops at the first invalid entry; entries before it are already applied.
func (s *Snapshot) Apply(tree *pathtree.Tree, opts Options) error {
	logrus.Debugf("Applying snapshot (%d entries)", len(s.Entries))
	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.New(len(s.Entries))
		bar.Output = os.Stderr
		bar.Start()
		defer bar.Finish()
	}
	for i := range s.Entries {
		e := &s.Entries[i]
		if bar != nil {
			bar.Increment()
		}
		p, value, ok, err := e.Verify()
		if err != nil {
			return err
		}
		if !ok {
			tree.Ensure(p)
			continue
		}
		tree.Set(p, value)
	}
	return nil
}
