package listing

import (
	"context"
	"fmt"
)

// Store executes a composed record set. Implementations must return the total number of
// matching rows alongside the requested window, both from the same snapshot.
type Store[T any] interface {
	Fetch(ctx context.Context, rs RecordSet, limit, offset uint64) ([]T, int64, error)
}

// Searcher is the free-text search collaborator. Its matching semantics are its own.
type Searcher interface {
	Search(rs RecordSet, listing, term string) RecordSet
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(rs RecordSet, listing, term string) RecordSet

func (f SearchFunc) Search(rs RecordSet, listing, term string) RecordSet {
	return f(rs, listing, term)
}

// Actor is the owner identity a listing can be scoped to.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ActorResolver turns a raw request identifier into an actor.
// ok is false when nothing matches; err is reserved for storage failures.
type ActorResolver interface {
	ResolveActor(ctx context.Context, raw string) (actor Actor, ok bool, err error)
}

// Execute fetches the page described by plan.
func Execute[T any](ctx context.Context, store Store[T], plan Plan) (Page[T], error) {
	records, total, err := store.Fetch(ctx, plan.Query, plan.Page.Limit(), plan.Page.Offset())
	if err != nil {
		return Page[T]{}, fmt.Errorf("fetch %s page %d: %w", plan.Listing, plan.Page.Number, err)
	}
	if records == nil {
		records = []T{}
	}
	return Page[T]{
		Records:    records,
		Number:     plan.Page.Number,
		Size:       plan.Page.Size,
		TotalCount: total,
	}, nil
}
