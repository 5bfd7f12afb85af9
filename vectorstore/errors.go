package vectorstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument indicates a malformed request, for example an
	// empty batch or a query without a vector and without an id.
	ErrInvalidArgument = errors.New("vectorstore: invalid argument")

	// ErrNotFound is the base error for lookups that came up empty. The
	// typed errors below unwrap to it.
	ErrNotFound = errors.New("vectorstore: not found")
)

// ErrDuplicateID indicates that a vector id is already present, either in
// the partition or earlier in the same batch.
type ErrDuplicateID struct {
	ID string
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("vectorstore: duplicate vector id %q", e.ID)
}

// ErrDimensionMismatch indicates an embedding whose length differs from
// the partition dimension.
type ErrDimensionMismatch struct {
	ID       string
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("vectorstore: vector %q has dimension %d, want %d", e.ID, e.Actual, e.Expected)
	}

	return fmt.Sprintf("vectorstore: dimension mismatch: got %d, want %d", e.Actual, e.Expected)
}

// ErrNamespaceNotFound indicates an operation on a namespace that has no
// partition.
type ErrNamespaceNotFound struct {
	Namespace Namespace
}

func (e *ErrNamespaceNotFound) Error() string {
	return fmt.Sprintf("vectorstore: namespace %q not found", e.Namespace)
}

func (e *ErrNamespaceNotFound) Unwrap() error {
	return ErrNotFound
}

// ErrIDNotFound indicates a vector id with no record in the partition.
type ErrIDNotFound struct {
	ID string
}

func (e *ErrIDNotFound) Error() string {
	return fmt.Sprintf("vectorstore: vector id %q not found", e.ID)
}

func (e *ErrIDNotFound) Unwrap() error {
	return ErrNotFound
}
