package pathtree

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// OutOfRangeError is the panic value of Cursor.Advance when the cursor has
// no segment left. It indicates a bug in the caller.
type OutOfRangeError struct {
	Path     string
	Position int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cursor for %q advanced past its last segment (position %d)", e.Path, e.Position)
}

// Cursor walks the segments of a normalized absolute path, one per tree level.
//
// A fresh cursor is positioned before the first segment, mirroring the fact
// that the root node is not a segment: callers Advance before reading Current.
// The root path "/" has no segment at all, so its cursor starts at its end.
//
// A cursor is single use and is not safe for concurrent use.
type Cursor struct {
	path     string
	segments []string
	pos      int
}

// NewCursor returns a cursor over path, which must be normalized (see NormalizePath).
func NewCursor(path string) *Cursor {
	var segments []string
	if path != Delimiter {
		segments = strings.Split(strings.TrimPrefix(path, Delimiter), Delimiter)
	}
	return &Cursor{
		path:     path,
		segments: segments,
		pos:      -1,
	}
}

// Current returns the current segment, or "" before the first Advance.
func (c *Cursor) Current() string {
	if c.pos < 0 {
		return ""
	}
	return c.segments[c.pos]
}

// Advance moves to the next segment.
// It panics with an *OutOfRangeError if the cursor is already at its end.
func (c *Cursor) Advance() {
	if c.IsAtEnd() {
		panic(errors.WithStack(&OutOfRangeError{Path: c.path, Position: c.pos + 1}))
	}
	c.pos++
}

// IsAtEnd reports whether the cursor addresses the last segment.
func (c *Cursor) IsAtEnd() bool {
	return c.pos == len(c.segments)-1
}

// Path returns the path the cursor was built from.
func (c *Cursor) Path() string {
	return c.path
}
