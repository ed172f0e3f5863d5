// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/http/v1/handlers"
	"wikihost/internal/infrastructure/http/v1/middleware"
	"wikihost/internal/infrastructure/metrics"
	"wikihost/pkg/logger"
)

// Database is what the router needs from the pool: probes and stats.
type Database interface {
	handlers.Pinger
	handlers.PoolStatter
}

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger       *logger.Logger
	Database     Database
	JWTValidator middleware.JWTValidator
	AdminService *admin.Service

	// Metrics is optional. When set, requests are measured and /metrics is served.
	Metrics *metrics.Metrics

	// RateLimiter is optional and applies to /admin only.
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Database)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	registerAdminRoutes(router, cfg)

	return router
}

// registerAdminRoutes mounts /admin behind rate limiting and the admin token check.
func registerAdminRoutes(router *gin.Engine, cfg RouterConfig) {
	group := router.Group("/admin")
	if cfg.RateLimiter != nil {
		group.Use(cfg.RateLimiter.Middleware())
	}
	group.Use(middleware.Auth(cfg.JWTValidator))
	group.Use(middleware.RequireAdmin())

	handler := handlers.NewAdminHandler(handlers.NewBaseHandler(), cfg.AdminService, cfg.Database)
	handler.RegisterRoutes(group)
}
