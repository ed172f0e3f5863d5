// Package metrics exposes prometheus collectors for HTTP traffic, admin listings
// and the database pool.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/storage/postgres"
)

// Metrics holds the process collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	listings        *prometheus.CounterVec
	listingDuration *prometheus.HistogramVec
	degraded        *prometheus.CounterVec
}

var _ admin.Observer = (*Metrics)(nil)

// New registers all collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikihost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wikihost_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		listings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikihost_listing_requests_total",
				Help: "Admin listing requests by listing and result",
			},
			[]string{"listing", "result"},
		),
		listingDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wikihost_listing_duration_seconds",
				Help:    "Time to compose and fetch one listing page",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"listing"},
		),
		degraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wikihost_listing_degraded_inputs_total",
				Help: "Listing inputs that were ignored or replaced with a default",
			},
			[]string{"listing", "kind"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveListing implements admin.Observer.
func (m *Metrics) ObserveListing(name string, plan listing.Plan, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.listings.WithLabelValues(name, result).Inc()
	m.listingDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	for _, n := range plan.Notices {
		m.degraded.WithLabelValues(name, string(n.Kind)).Inc()
	}
}

// Middleware records request counts and latency. Routes are labelled by their
// pattern so ids in paths do not create new series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// PoolStatter is satisfied by *postgres.Pool.
type PoolStatter interface {
	Stats() postgres.PoolStats
}

// RegisterPool exports connection counts read from pool on every scrape.
func (m *Metrics) RegisterPool(pool PoolStatter) {
	gauge := func(name, help string, value func(postgres.PoolStats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: name, Help: help},
			func() float64 { return value(pool.Stats()) },
		)
	}
	m.registry.MustRegister(
		gauge("wikihost_db_pool_total_conns", "Connections in the pool",
			func(s postgres.PoolStats) float64 { return float64(s.TotalConns) }),
		gauge("wikihost_db_pool_acquired_conns", "Connections currently in use",
			func(s postgres.PoolStats) float64 { return float64(s.AcquiredConns) }),
		gauge("wikihost_db_pool_idle_conns", "Idle connections",
			func(s postgres.PoolStats) float64 { return float64(s.IdleConns) }),
		gauge("wikihost_db_pool_max_conns", "Configured pool size",
			func(s postgres.PoolStats) float64 { return float64(s.MaxConns) }),
	)
}
