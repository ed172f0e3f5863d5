package admin

import (
	"context"

	"wikihost/internal/core/listing"
)

// Stores executes composed listing queries, one store per row type.
type Stores struct {
	Users      listing.Store[UserRow]
	Sites      listing.Store[SiteRow]
	TspotSites listing.Store[TspotSiteRow]
}

// StatsRepository reads dashboard counters.
type StatsRepository interface {
	// DashboardStats returns the counters shown on the admin index page.
	DashboardStats(ctx context.Context) (Stats, error)

	// SignupsPerDay returns user signups grouped by calendar day, oldest first.
	SignupsPerDay(ctx context.Context) ([]DailySignups, error)
}
