package listing

import (
	"context"

	"github.com/Masterminds/squirrel"
)

var (
	privateFilter = Enum("private",
		Opt("1", "private", Where(squirrel.Eq{"sites.is_private": true})),
		Opt("0", "public", Where(squirrel.Eq{"sites.is_private": false})),
	)
	savedFilter = Enum("saved",
		Opt("1", "saved", Where(squirrel.NotEq{"sites.save_count": 0})),
		Opt("0", "unsaved", Where(squirrel.Eq{"sites.save_count": 0})),
	)
	ownedFilter = Enum("owned",
		Opt("1", "owned", Where(squirrel.NotEq{"sites.user_id": nil})),
		Opt("0", "unowned", Where(squirrel.Eq{"sites.user_id": nil})),
	)
	prefixFilter = Param("prefix", func(rs RecordSet, v string) RecordSet {
		return rs.Where(squirrel.Like{"sites.name": v + "%"})
	})
)

func testSorts() *SortRegistry {
	return MustSortRegistry([]SortSpec{
		Sort("id", "sites.id"),
		Sort("name", "sites.name").Ascending(),
		Sort("created", "sites.created_at"),
		Sort("description", "NULLIF(sites.description, '')").Ascending(),
		Sort("owner", "COALESCE(users.username, users.email)"),
		Sort("versions", "COUNT(versions.id)"),
		Sort("flags", "sites.is_private", "sites.save_count"),
	}, "description", "owner")
}

const baseSQL = "SELECT sites.id AS id, sites.name AS name, sites.description AS description, " +
	"sites.is_private AS is_private, sites.created_at AS created_at " +
	"FROM sites LEFT JOIN users ON users.id = sites.user_id LEFT JOIN versions ON versions.site_id = sites.id"

func testListing(filters ...FilterSpec) Listing {
	if len(filters) == 0 {
		filters = []FilterSpec{privateFilter, savedFilter, ownedFilter, prefixFilter}
	}
	return Listing{
		Name:  "sites",
		Title: "Sites",
		Base: func() RecordSet {
			return squirrel.
				Select(
					"sites.id AS id",
					"sites.name AS name",
					"sites.description AS description",
					"sites.is_private AS is_private",
					"sites.created_at AS created_at",
				).
				From("sites").
				LeftJoin("users ON users.id = sites.user_id").
				LeftJoin("versions ON versions.site_id = sites.id").
				GroupBy("sites.id")
		},
		Sorts:       testSorts(),
		Filters:     MustFilterRegistry(filters...),
		DefaultSort: MustSortState("created_desc"),
		TieBreak:    "sites.id",
		Owner: OwnerScope{
			Narrow: func(rs RecordSet, a Actor) RecordSet {
				return rs.Where(squirrel.Eq{"sites.user_id": a.ID})
			},
			Title: func(a Actor, title string) string {
				return a.Name + "'s " + title
			},
		},
	}
}

type fakeActors struct {
	actors map[string]Actor
	err    error
}

func (f fakeActors) ResolveActor(_ context.Context, raw string) (Actor, bool, error) {
	if f.err != nil {
		return Actor{}, false, f.err
	}
	a, ok := f.actors[raw]
	return a, ok, nil
}

func testActors() fakeActors {
	return fakeActors{actors: map[string]Actor{"1": {ID: 1, Name: "alice"}}}
}
