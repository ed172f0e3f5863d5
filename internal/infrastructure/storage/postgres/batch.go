package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var errNoTx = errors.New("batch writes require a transaction in context")

// CopyStructs bulk inserts rows into table with the COPY protocol. Columns come
// from the db tags of T. Must run inside TxManager.RunInTransaction.
func CopyStructs[T any](ctx context.Context, txm *TxManager, table string, rows []T) (int64, error) {
	tx := txm.GetTx(ctx)
	if tx == nil {
		return 0, errNoTx
	}

	values := make([][]any, len(rows))
	for i := range rows {
		values[i] = RowValues(&rows[i])
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, DBColumns[T](), pgx.CopyFromRows(values))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}

// BatchQuery represents a query in a batch.
type BatchQuery struct {
	SQL  string
	Args []any
}

// ExecuteBatch sends queries in one round-trip inside the transaction in ctx.
func ExecuteBatch(ctx context.Context, txm *TxManager, queries []BatchQuery) error {
	tx := txm.GetTx(ctx)
	if tx == nil {
		return errNoTx
	}

	batch := &pgx.Batch{}
	for _, q := range queries {
		batch.Queue(q.SQL, q.Args...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range queries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch query %d: %w", i, err)
		}
	}
	return nil
}
