//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Open maps the file at path read-only.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		// Zero-length mappings are invalid; an empty blob needs no mapping.
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data, mapped: true}, nil
}

// Close unmaps the file.
func (m *Mapping) Close() error {
	if !m.mapped {
		return nil
	}
	data := m.data
	m.data = nil
	m.mapped = false
	return unix.Munmap(data)
}
