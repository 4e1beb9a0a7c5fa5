package repository

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateKey is returned by Create methods when a unique constraint
	// rejects the row.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned by writes that target a row which does not exist.
	// Reads return (nil, nil) instead.
	ErrNotFound = errors.New("row not found")
)

// Transactor runs fn inside a single storage transaction. Repositories called
// with the ctx handed to fn join that transaction; a non-nil error from fn
// rolls every write back. Nested calls reuse the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
