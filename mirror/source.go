package mirror

// Source is the authoritative namespace a Mirror fills its tree from.
type Source interface {
	// Fetch returns the value stored at path. ok is false when the path
	// does not exist at the source or exists without a value.
	Fetch(path string) (value []byte, ok bool, err error)
}
