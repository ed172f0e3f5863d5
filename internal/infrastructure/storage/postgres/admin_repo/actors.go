package admin_repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"wikihost/internal/core/listing"
	"wikihost/internal/infrastructure/storage/postgres"
)

// ActorRepo resolves the "user" listing parameter against the users table.
type ActorRepo struct {
	txm *postgres.TxManager
}

var _ listing.ActorResolver = (*ActorRepo)(nil)

// NewActorRepo creates an actor resolver.
func NewActorRepo(txm *postgres.TxManager) *ActorRepo {
	return &ActorRepo{txm: txm}
}

type actorRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// parseActorID accepts positive decimal ids only.
func parseActorID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func actorQuery(id int64) (string, []any, error) {
	return builder.
		Select("id", "COALESCE(NULLIF(username, ''), email) AS name").
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
}

// ResolveActor looks a user up by numeric id. Anything else is "not found".
func (r *ActorRepo) ResolveActor(ctx context.Context, raw string) (listing.Actor, bool, error) {
	id, ok := parseActorID(raw)
	if !ok {
		return listing.Actor{}, false, nil
	}

	sql, args, err := actorQuery(id)
	if err != nil {
		return listing.Actor{}, false, fmt.Errorf("build actor query: %w", err)
	}

	var row actorRow
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return listing.Actor{}, false, nil
		}
		return listing.Actor{}, false, fmt.Errorf("get actor: %w", err)
	}

	return listing.Actor{ID: row.ID, Name: row.Name}, true, nil
}
