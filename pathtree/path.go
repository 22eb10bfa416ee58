package pathtree

import (
	"strings"

	"github.com/pkg/errors"
)

// Delimiter separates path segments. It is also the key and path of the root node.
const Delimiter = "/"

// ErrInvalidPath is returned by NormalizePath.
var ErrInvalidPath = errors.New("invalid path")

// JoinPath returns the absolute path of the child key under parent.
func JoinPath(parent, key string) string {
	if parent == Delimiter {
		return Delimiter + key
	}
	return parent + Delimiter + key
}

// NormalizePath validates an absolute path coming from outside the cache
// and strips a trailing delimiter.
// Node and Cursor never call it; they assume their input is already normalized.
func NormalizePath(path string) (string, error) {
	if !strings.HasPrefix(path, Delimiter) {
		return "", errors.Wrapf(ErrInvalidPath, "%q is not absolute", path)
	}
	if path == Delimiter {
		return path, nil
	}
	trimmed := strings.TrimSuffix(path, Delimiter)
	for _, s := range strings.Split(trimmed[1:], Delimiter) {
		switch s {
		case "":
			return "", errors.Wrapf(ErrInvalidPath, "%q has an empty segment", path)
		case ".", "..":
			return "", errors.Wrapf(ErrInvalidPath, "%q has disallowed segment %q", path, s)
		}
	}
	return trimmed, nil
}
