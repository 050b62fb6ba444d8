package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a lookup matches no record. Malformed ids
	// are reported the same way.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// LockMode selects the row lock taken by Lock* lookups inside a transaction.
// Outside a transaction the lock is released immediately.
type LockMode int

const (
	// LockShare blocks concurrent LockUpdate holders (dependents being written).
	LockShare LockMode = iota
	// LockUpdate blocks concurrent LockShare and LockUpdate holders (deletes).
	LockUpdate
)

// Transactor runs fn inside a single store transaction. Repository calls made
// with the ctx passed to fn join that transaction. Nested calls reuse the
// outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
