package admin_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/storage/postgres"
)

const dashboardSQL = `
SELECT
	(SELECT COALESCE(SUM(access_count), 0)::bigint FROM sites)                 AS view_count,
	(SELECT COALESCE(SUM(access_count), 0)::bigint FROM tspot_sites)           AS tspot_view_count,
	(SELECT COALESCE(SUM(byte_size), 0)::bigint FROM active_storage_blobs)     AS total_site_bytes,

	(SELECT COUNT(*) FROM users)                                               AS user_count,
	(SELECT COUNT(DISTINCT pay_customers.owner_id)
	   FROM pay_customers
	   JOIN pay_subscriptions ON pay_subscriptions.customer_id = pay_customers.id
	  WHERE pay_subscriptions.status = 'active')                               AS subscription_count,
	(SELECT COUNT(*) FROM users WHERE sign_in_count = 0)                       AS never_signed_in_users,
	(SELECT COUNT(*) FROM users WHERE sign_in_count = 1)                       AS signed_in_once_users,
	(SELECT COUNT(*) FROM users WHERE sign_in_count > 1
	    AND current_sign_in_at > now() - interval '1 day')                     AS active_daily,
	(SELECT COUNT(*) FROM users WHERE sign_in_count > 1
	    AND current_sign_in_at > now() - interval '7 days')                    AS active_weekly,
	(SELECT COUNT(*) FROM users WHERE sign_in_count > 1
	    AND current_sign_in_at > now() - interval '1 month')                   AS active_monthly,

	(SELECT COUNT(*) FROM sites)                                               AS site_count,
	(SELECT COUNT(*) FROM sites WHERE updated_at = created_at)                 AS never_updated_sites,
	(SELECT COUNT(*) FROM sites WHERE is_private)                              AS private_count,
	(SELECT COUNT(*) FROM sites WHERE NOT is_private)                          AS public_count,
	(SELECT COUNT(*) FROM sites WHERE NOT is_private AND NOT is_searchable)    AS public_non_searchable_count,
	(SELECT COUNT(*) FROM sites WHERE NOT is_private AND is_searchable)        AS searchable_count,

	(SELECT COUNT(*) FROM tspot_sites WHERE "exists")                          AS tspot_site_count,
	(SELECT COUNT(*) FROM tspot_sites WHERE user_id IS NOT NULL)               AS owned_tspot_site_count,
	(SELECT COUNT(*) FROM tspot_sites WHERE save_count <> 0)                   AS saved_tspot_count
`

const signupsSQL = `
SELECT
	TO_CHAR(created_at, 'YYYY-MM-DD') AS day,
	COUNT(id) AS signup_count
FROM users
GROUP BY 1
ORDER BY 1
`

// StatsRepo reads the dashboard counters.
type StatsRepo struct {
	txm *postgres.TxManager
}

var _ admin.StatsRepository = (*StatsRepo)(nil)

// NewStatsRepo creates a stats repository.
func NewStatsRepo(txm *postgres.TxManager) *StatsRepo {
	return &StatsRepo{txm: txm}
}

// DashboardStats runs every counter in one statement.
func (r *StatsRepo) DashboardStats(ctx context.Context) (admin.Stats, error) {
	var st admin.Stats
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &st, dashboardSQL); err != nil {
		return admin.Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return st, nil
}

// SignupsPerDay returns signups grouped by day.
func (r *StatsRepo) SignupsPerDay(ctx context.Context) ([]admin.DailySignups, error) {
	var rows []admin.DailySignups
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, signupsSQL); err != nil {
		return nil, fmt.Errorf("signups per day: %w", err)
	}
	return rows, nil
}
