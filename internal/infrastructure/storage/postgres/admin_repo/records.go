// Package admin_repo implements the admin listing collaborators on PostgreSQL.
package admin_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wikihost/internal/core/apperror"
	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/storage/postgres"
)

// builder renders PostgreSQL placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type fetchQueries struct {
	countSQL  string
	countArgs []any
	pageSQL   string
	pageArgs  []any
}

// buildFetch renders the COUNT over the filtered set and the windowed page query.
func buildFetch(rs listing.RecordSet, limit, offset uint64) (fetchQueries, error) {
	var q fetchQueries
	var err error

	q.countSQL, q.countArgs, err = builder.
		Select("COUNT(*)").
		FromSelect(rs, "sub").
		ToSql()
	if err != nil {
		return q, fmt.Errorf("build count query: %w", err)
	}

	q.pageSQL, q.pageArgs, err = rs.
		PlaceholderFormat(squirrel.Dollar).
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return q, fmt.Errorf("build page query: %w", err)
	}
	return q, nil
}

// RecordStore executes composed listing queries for one row type.
type RecordStore[T any] struct {
	txm  *postgres.TxManager
	name string
}

var _ listing.Store[struct{}] = (*RecordStore[struct{}])(nil)

// NewRecordStore creates a store. name is used in error details.
func NewRecordStore[T any](txm *postgres.TxManager, name string) *RecordStore[T] {
	return &RecordStore[T]{txm: txm, name: name}
}

// Fetch runs the count and the page query in one read-only snapshot.
func (s *RecordStore[T]) Fetch(ctx context.Context, rs listing.RecordSet, limit, offset uint64) ([]T, int64, error) {
	q, err := buildFetch(rs, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewInternal(err).WithDetail("listing", s.name)
	}

	var (
		rows  []T
		total int64
	)
	err = s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		querier := s.txm.GetQuerier(ctx)

		if err := querier.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		// Past the last page: nothing to select.
		if offset >= uint64(total) {
			return nil
		}
		if err := pgxscan.Select(ctx, querier, &rows, q.pageSQL, q.pageArgs...); err != nil {
			return fmt.Errorf("select: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperror.NewDatabase("list "+s.name, err)
	}

	return rows, total, nil
}

// NewStores creates a record store for each admin listing.
func NewStores(txm *postgres.TxManager) admin.Stores {
	return admin.Stores{
		Users:      NewRecordStore[admin.UserRow](txm, admin.UsersListing),
		Sites:      NewRecordStore[admin.SiteRow](txm, admin.SitesListing),
		TspotSites: NewRecordStore[admin.TspotSiteRow](txm, admin.TspotSitesListing),
	}
}
