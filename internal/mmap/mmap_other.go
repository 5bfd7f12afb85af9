//go:build !unix

package mmap

import "os"

// Open reads the file at path into memory. This fallback keeps the package
// usable on platforms where no mmap syscall is wired up.
func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data}, nil
}

// Close releases the in-memory copy.
func (m *Mapping) Close() error {
	m.data = nil
	return nil
}
