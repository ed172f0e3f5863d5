package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"wikihost/internal/core/listing"
	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/http/v1/dto"
	"wikihost/internal/infrastructure/storage/postgres"
)

// PoolStatter is satisfied by *postgres.Pool.
type PoolStatter interface {
	Stats() postgres.PoolStats
}

// AdminHandler serves the back office: dashboard, listings and diagnostics.
type AdminHandler struct {
	*BaseHandler
	service *admin.Service
	pool    PoolStatter
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(base *BaseHandler, service *admin.Service, pool PoolStatter) *AdminHandler {
	return &AdminHandler{BaseHandler: base, service: service, pool: pool}
}

// RegisterRoutes mounts the admin routes. Static paths take precedence over :listing.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Dashboard)
	rg.GET("/listings", h.Listings)
	rg.GET("/csv_data", h.SignupsCSV)
	rg.GET("/pool_stats", h.PoolStats)
	rg.GET("/boom", h.Boom)
	rg.GET("/:listing", h.List)
}

// Dashboard returns the statistics counters.
// GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, stats)
}

// List renders one page of a listing from the query string.
// GET /admin/:listing?sort=&page=&user=&q=&<filter>=
func (h *AdminHandler) List(c *gin.Context) {
	params := listing.ParamsFromValues(c.Request.URL.Query())

	result, err := h.service.List(c.Request.Context(), c.Param("listing"), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(result))
}

// Listings describes the sortable keys and filters of every listing.
// GET /admin/listings
func (h *AdminHandler) Listings(c *gin.Context) {
	h.OK(c, dto.ListingsResponse{Listings: h.service.Catalog().Describe()})
}

// SignupsCSV streams signups per day as "day,count" lines.
// GET /admin/csv_data
func (h *AdminHandler) SignupsCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteSignupsCSV(c.Request.Context(), &buf); err != nil {
		h.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// PoolStats reports database pool usage.
// GET /admin/pool_stats
func (h *AdminHandler) PoolStats(c *gin.Context) {
	h.OK(c, h.pool.Stats())
}

// Boom fails on purpose so error reporting can be checked end to end.
// GET /admin/boom
func (h *AdminHandler) Boom(c *gin.Context) {
	panic("admin boom: deliberate failure for error reporting")
}
