// Package listing turns whitelisted sort and filter tables plus a handful of request
// parameters into one ordered, filtered, paginated query over an already joined and
// grouped record set.
//
// Nothing here fails on bad request input. Unknown sort keys fall back to the listing
// default, unknown filters and codes are skipped, unresolvable owners are dropped and
// page numbers are clamped. Every such degradation is reported as a Notice so callers
// can log or count it.
package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"wikihost/internal/core/apperror"
)

// Reserved request keys. Everything else is looked up in the listing's filter registry.
const (
	SortKey   = "sort"
	PageKey   = "page"
	OwnerKey  = "user"
	SearchKey = "q"
)

// OwnerScope narrows a listing to one actor and retitles it.
type OwnerScope struct {
	Narrow func(rs RecordSet, actor Actor) RecordSet
	Title  func(actor Actor, title string) string
}

// Listing is one admin record listing.
//
// Base must already carry every JOIN and GROUP BY the sort and filter expressions need.
// Aggregate sort keys such as COUNT(sites.id) only make sense on a grouped base; the
// composer never adds grouping.
type Listing struct {
	Name        string
	Title       string
	Base        func() RecordSet
	Sorts       *SortRegistry
	Filters     *FilterRegistry
	DefaultSort SortState

	// TieBreak is appended as the last ORDER BY term (same direction) so pages stay stable
	// when the chosen key has duplicates. Usually the primary key.
	TieBreak string

	Owner OwnerScope
}

// Validate checks the listing definition. Call it at startup.
func (l Listing) Validate() error {
	switch {
	case l.Name == "":
		return apperror.NewConfiguration("listing without a name")
	case l.Base == nil:
		return apperror.NewConfiguration("listing without base query").WithDetail("listing", l.Name)
	case l.Sorts == nil:
		return apperror.NewConfiguration("listing without sort registry").WithDetail("listing", l.Name)
	case l.Filters == nil:
		return apperror.NewConfiguration("listing without filter registry").WithDetail("listing", l.Name)
	}
	if !l.Sorts.Has(l.DefaultSort.Name) {
		return apperror.NewConfiguration("default sort is not registered").
			WithDetail("listing", l.Name).
			WithDetail("sort", l.DefaultSort.Token())
	}
	if _, ok := ParseDirection(string(l.DefaultSort.Direction)); !ok {
		return apperror.NewConfiguration("default sort has no direction").
			WithDetail("listing", l.Name).
			WithDetail("sort", l.DefaultSort.Token())
	}
	for _, name := range l.Filters.Names() {
		switch name {
		case SortKey, PageKey, OwnerKey, SearchKey:
			return apperror.NewConfiguration("filter uses a reserved key").
				WithDetail("listing", l.Name).
				WithDetail("filter", name)
		}
	}
	return nil
}

// Params are the raw listing request values.
type Params struct {
	Sort    string
	Page    int
	Owner   string
	Search  string
	Filters map[string]string
}

// ParamsFromValues splits query values into reserved keys and filter candidates.
// Filter candidates are not checked here; the composer ignores the ones it does not know.
func ParamsFromValues(values url.Values) Params {
	p := Params{
		Sort:    values.Get(SortKey),
		Page:    ParsePage(values.Get(PageKey)),
		Owner:   values.Get(OwnerKey),
		Search:  values.Get(SearchKey),
		Filters: make(map[string]string),
	}
	for key := range values {
		switch key {
		case SortKey, PageKey, OwnerKey, SearchKey:
			continue
		}
		p.Filters[key] = values.Get(key)
	}
	return p
}

// NoticeKind classifies a silently degraded input.
type NoticeKind string

const (
	NoticeUnknownSort     NoticeKind = "unknown_sort"
	NoticeUnmatchedFilter NoticeKind = "unmatched_filter"
	NoticeUnknownOwner    NoticeKind = "unknown_owner"
	NoticePageClamped     NoticeKind = "page_clamped"
)

// Notice records one input the composer chose to ignore or replace.
type Notice struct {
	Kind  NoticeKind `json:"kind"`
	Key   string     `json:"key"`
	Value string     `json:"value"`
}

// Plan is a composed listing query plus what the rendering layer needs to describe it.
type Plan struct {
	Listing string
	Title   string

	// Query is filtered and ordered. Pagination is kept separate so the store can count.
	Query RecordSet

	Sort    SortState
	Applied []Applied
	Owner   *Actor
	Search  string
	Page    Pagination
	Notices []Notice
}

// Composer builds plans. It holds only read-only collaborators and is safe for concurrent use.
type Composer struct {
	actors ActorResolver
	search Searcher
}

// NewComposer creates a composer. A nil resolver disables owner scoping,
// a nil searcher disables free-text search.
func NewComposer(actors ActorResolver, search Searcher) *Composer {
	return &Composer{actors: actors, search: search}
}

// Compose applies, in this order:
//
//  1. owner scoping (also rewrites the title, so it must see the unfiltered base)
//  2. registry filters, ANDed, in registration order
//  3. free-text search
//  4. ORDER BY from the sort token, or the listing default
//  5. pagination
//
// The only error is a failing actor lookup.
func (c *Composer) Compose(ctx context.Context, l Listing, p Params) (Plan, error) {
	plan := Plan{
		Listing: l.Name,
		Title:   l.Title,
		Query:   l.Base(),
		Applied: []Applied{},
	}

	if err := c.scopeOwner(ctx, l, p, &plan); err != nil {
		return Plan{}, err
	}
	c.applyFilters(l, p, &plan)
	c.applySearch(l, p, &plan)
	c.applySort(l, p, &plan)
	c.paginate(p, &plan)

	return plan, nil
}

func (c *Composer) scopeOwner(ctx context.Context, l Listing, p Params, plan *Plan) error {
	raw := strings.TrimSpace(p.Owner)
	if raw == "" {
		return nil
	}
	if c.actors == nil || l.Owner.Narrow == nil {
		plan.notice(NoticeUnknownOwner, OwnerKey, raw)
		return nil
	}

	actor, ok, err := c.actors.ResolveActor(ctx, raw)
	if err != nil {
		return fmt.Errorf("resolve owner %q: %w", raw, err)
	}
	if !ok {
		plan.notice(NoticeUnknownOwner, OwnerKey, raw)
		return nil
	}

	plan.Query = l.Owner.Narrow(plan.Query, actor)
	if l.Owner.Title != nil {
		plan.Title = l.Owner.Title(actor, plan.Title)
	}
	plan.Owner = &actor
	return nil
}

func (c *Composer) applyFilters(l Listing, p Params, plan *Plan) {
	for _, name := range l.Filters.Names() {
		raw, ok := p.Filters[name]
		if !ok {
			continue
		}
		q, applied, outcome := l.Filters.Apply(plan.Query, name, raw)
		switch outcome {
		case Matched:
			plan.Query = q
			plan.Applied = append(plan.Applied, applied)
		case Unmatched:
			plan.notice(NoticeUnmatchedFilter, name, raw)
		}
	}
}

func (c *Composer) applySearch(l Listing, p Params, plan *Plan) {
	term := strings.TrimSpace(p.Search)
	if term == "" || c.search == nil {
		return
	}
	plan.Query = c.search.Search(plan.Query, l.Name, term)
	plan.Search = term
	plan.Applied = append(plan.Applied, Applied{Name: SearchKey, Value: term, Label: term})
}

func (c *Composer) applySort(l Listing, p Params, plan *Plan) {
	state, parsed := ParseSortToken(p.Sort)
	spec, found := SortSpec{}, false
	if parsed {
		spec, found = l.Sorts.Resolve(state.Name)
	}
	if !found {
		if p.Sort != "" {
			plan.notice(NoticeUnknownSort, SortKey, p.Sort)
		}
		state = l.DefaultSort
		spec, _ = l.Sorts.Resolve(state.Name)
	}

	terms := spec.OrderBy(state.Direction)
	if l.TieBreak != "" && !contains(spec.Expressions, l.TieBreak) {
		terms = append(terms, l.TieBreak+" "+state.Direction.SQL())
	}

	plan.Query = plan.Query.OrderBy(terms...)
	plan.Sort = state
}

func (c *Composer) paginate(p Params, plan *Plan) {
	page, clamped := NewPagination(p.Page)
	// Zero is "not given" for programmatic callers.
	if clamped && p.Page != 0 {
		plan.notice(NoticePageClamped, PageKey, fmt.Sprint(p.Page))
	}
	plan.Page = page
}

func (p *Plan) notice(kind NoticeKind, key, value string) {
	p.Notices = append(p.Notices, Notice{Kind: kind, Key: key, Value: value})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
