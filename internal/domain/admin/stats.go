package admin

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

var bytesPerMB = decimal.NewFromInt(1 << 20)

// Stats are the admin dashboard counters.
type Stats struct {
	ViewCount      int64 `db:"view_count" json:"viewCount"`
	TspotViewCount int64 `db:"tspot_view_count" json:"tspotViewCount"`
	TotalSiteBytes int64 `db:"total_site_bytes" json:"totalSiteBytes"`

	// TotalSiteMB is derived from TotalSiteBytes by the service.
	TotalSiteMB decimal.Decimal `db:"-" json:"totalSiteMb"`

	UserCount          int64 `db:"user_count" json:"userCount"`
	SubscriptionCount  int64 `db:"subscription_count" json:"subscriptionCount"`
	NeverSignedInUsers int64 `db:"never_signed_in_users" json:"neverSignedInUsers"`
	SignedInOnceUsers  int64 `db:"signed_in_once_users" json:"signedInOnceUsers"`
	ActiveDaily        int64 `db:"active_daily" json:"activeDaily"`
	ActiveWeekly       int64 `db:"active_weekly" json:"activeWeekly"`
	ActiveMonthly      int64 `db:"active_monthly" json:"activeMonthly"`

	SiteCount                int64 `db:"site_count" json:"siteCount"`
	NeverUpdatedSites        int64 `db:"never_updated_sites" json:"neverUpdatedSites"`
	PrivateCount             int64 `db:"private_count" json:"privateCount"`
	PublicCount              int64 `db:"public_count" json:"publicCount"`
	PublicNonSearchableCount int64 `db:"public_non_searchable_count" json:"publicNonSearchableCount"`
	SearchableCount          int64 `db:"searchable_count" json:"searchableCount"`

	TspotSiteCount      int64 `db:"tspot_site_count" json:"tspotSiteCount"`
	OwnedTspotSiteCount int64 `db:"owned_tspot_site_count" json:"ownedTspotSiteCount"`
	SavedTspotCount     int64 `db:"saved_tspot_count" json:"savedTspotCount"`
}

// DailySignups is one row of the signups series.
type DailySignups struct {
	Day   string `db:"day" json:"day"`
	Count int64  `db:"signup_count" json:"signupCount"`
}

// BytesToMB converts a byte count to megabytes rounded to two places.
func BytesToMB(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Div(bytesPerMB).Round(2)
}

// Stats returns the dashboard counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	st.TotalSiteMB = BytesToMB(st.TotalSiteBytes)
	return st, nil
}

// SignupsPerDay returns the signup series.
func (s *Service) SignupsPerDay(ctx context.Context) ([]DailySignups, error) {
	rows, err := s.stats.SignupsPerDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("signups per day: %w", err)
	}
	return rows, nil
}

// WriteSignupsCSV writes the signup series as headerless "day,count" lines.
func (s *Service) WriteSignupsCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.SignupsPerDay(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	for _, r := range rows {
		if err := cw.Write([]string{r.Day, strconv.FormatInt(r.Count, 10)}); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
