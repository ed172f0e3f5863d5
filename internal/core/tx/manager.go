// Package tx declares the transaction contracts the storage layer implements.
package tx

import (
	"context"
)

// Manager runs fn in a transaction. Nested calls join the transaction already in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only snapshots, used by listing reads so that the
// total and the page are taken from the same data.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
