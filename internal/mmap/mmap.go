// Package mmap provides read-only memory mapping of files for the local
// blob store. On platforms without mmap support the file is read into memory
// instead; callers see the same interface either way.
package mmap

// Mapping is a read-only view of a file's contents.
//
// The byte slice returned by Bytes must not be modified and becomes invalid
// once Close is called.
type Mapping struct {
	data   []byte
	mapped bool
}

// Bytes returns the mapped contents.
func (m *Mapping) Bytes() []byte {
	return m.data
}
