package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikihost/internal/core/listing"
	"wikihost/internal/infrastructure/storage/postgres"
)

func TestObserveListing(t *testing.T) {
	m := New()
	plan := listing.Plan{Notices: []listing.Notice{
		{Kind: listing.NoticeUnknownSort, Key: "sort", Value: "bogus_asc"},
		{Kind: listing.NoticeUnmatchedFilter, Key: "private", Value: "9"},
		{Kind: listing.NoticeUnmatchedFilter, Key: "saved", Value: "x"},
	}}

	m.ObserveListing("sites", plan, 20*time.Millisecond, nil)
	m.ObserveListing("sites", listing.Plan{}, time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.listings.WithLabelValues("sites", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listings.WithLabelValues("sites", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degraded.WithLabelValues("sites", "unknown_sort")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.degraded.WithLabelValues("sites", "unmatched_filter")))
}

func TestMiddleware_LabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/admin/:listing", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/admin/users", "/admin/sites", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/admin/:listing", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

type staticPool postgres.PoolStats

func (p staticPool) Stats() postgres.PoolStats { return postgres.PoolStats(p) }

func TestHandler_ExposesPoolAndListingSeries(t *testing.T) {
	m := New()
	m.RegisterPool(staticPool{TotalConns: 4, AcquiredConns: 1, IdleConns: 3, MaxConns: 10})
	m.ObserveListing("users", listing.Plan{}, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "wikihost_db_pool_max_conns 10")
	assert.Contains(t, body, "wikihost_db_pool_acquired_conns 1")
	assert.True(t, strings.Contains(body, `wikihost_listing_requests_total{listing="users",result="ok"} 1`))
}
