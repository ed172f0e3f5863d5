package admin

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wikihost/internal/core/apperror"
	"wikihost/internal/core/listing"
	"wikihost/pkg/logger"
)

var tracer = otel.Tracer("wikihost/admin")

// Observer receives one call per listing request. Implemented by the metrics package.
type Observer interface {
	ObserveListing(name string, plan listing.Plan, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveListing(string, listing.Plan, time.Duration, error) {}

// ListResult is one rendered listing page.
type ListResult struct {
	Listing    string            `json:"listing"`
	Title      string            `json:"title"`
	Sort       listing.SortState `json:"sort"`
	Applied    []listing.Applied `json:"filters"`
	Owner      *listing.Actor    `json:"owner,omitempty"`
	Search     string            `json:"search,omitempty"`
	Items      any               `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalCount int64             `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	SortLinks  map[string]string `json:"sortLinks"`
	Notices    []listing.Notice  `json:"notices,omitempty"`

	// SortQueries and FilterLinks are encoded query strings for the next request.
	SortQueries map[string]string            `json:"sortQueries"`
	FilterLinks map[string]map[string]string `json:"filterLinks"`
}

// ServiceConfig wires the admin service.
type ServiceConfig struct {
	Catalog  *Catalog
	Actors   listing.ActorResolver
	Search   listing.Searcher
	Stores   Stores
	Stats    StatsRepository
	Observer Observer
}

// Service runs admin listings and dashboard queries.
type Service struct {
	catalog  *Catalog
	composer *listing.Composer
	stores   Stores
	stats    StatsRepository
	observer Observer
}

// NewService creates the admin service.
func NewService(cfg ServiceConfig) *Service {
	obs := cfg.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Service{
		catalog:  cfg.Catalog,
		composer: listing.NewComposer(cfg.Actors, cfg.Search),
		stores:   cfg.Stores,
		stats:    cfg.Stats,
		observer: obs,
	}
}

// Catalog returns the listing catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// List composes and executes one listing page.
// Unknown listing names are NOT_FOUND; malformed sort, filter, owner or page input never fails.
func (s *Service) List(ctx context.Context, name string, p listing.Params) (*ListResult, error) {
	l, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, apperror.NewNotFound("listing", name)
	}

	ctx, span := tracer.Start(ctx, "admin.List", trace.WithAttributes(
		attribute.String("listing.name", name),
		attribute.String("listing.sort", p.Sort),
		attribute.Int("listing.page", p.Page),
	))
	defer span.End()

	start := time.Now()
	plan, result, err := s.run(ctx, l, p)
	s.observer.ObserveListing(name, plan, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if len(plan.Notices) > 0 {
		logger.Debug(ctx, "listing inputs ignored",
			"listing", name,
			"notices", plan.Notices,
		)
	}
	span.SetAttributes(attribute.Int64("listing.total", result.TotalCount))

	return result, nil
}

func (s *Service) run(ctx context.Context, l listing.Listing, p listing.Params) (listing.Plan, *ListResult, error) {
	plan, err := s.composer.Compose(ctx, l, p)
	if err != nil {
		return plan, nil, err
	}

	values := plan.Values()
	res := &ListResult{
		Listing:     plan.Listing,
		Title:       plan.Title,
		Sort:        plan.Sort,
		Applied:     plan.Applied,
		Owner:       plan.Owner,
		Search:      plan.Search,
		SortLinks:   listing.SortLinks(l.Sorts, plan.Sort),
		Notices:     plan.Notices,
		SortQueries: listing.SortQueries(l.Sorts, plan.Sort, values),
		FilterLinks: listing.FilterLinks(l.Filters, values),
	}

	switch l.Name {
	case UsersListing:
		err = fill(ctx, s.stores.Users, plan, res)
	case SitesListing:
		err = fill(ctx, s.stores.Sites, plan, res)
	case TspotSitesListing:
		err = fill(ctx, s.stores.TspotSites, plan, res)
	default:
		err = apperror.NewConfiguration("listing has no store").WithDetail("listing", l.Name)
	}
	if err != nil {
		return plan, nil, err
	}
	return plan, res, nil
}

func fill[T any](ctx context.Context, store listing.Store[T], plan listing.Plan, res *ListResult) error {
	if store == nil {
		return apperror.NewConfiguration("listing has no store").WithDetail("listing", plan.Listing)
	}
	page, err := listing.Execute(ctx, store, plan)
	if err != nil {
		return err
	}
	res.Items = page.Records
	res.Page = page.Number
	res.PageSize = page.Size
	res.TotalCount = page.TotalCount
	res.TotalPages = page.TotalPages()
	return nil
}
