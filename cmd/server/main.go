// Package main is the entry point for the wikihost admin API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"

	"wikihost/internal/config"
	"wikihost/internal/domain/admin"
	"wikihost/internal/domain/auth"
	v1 "wikihost/internal/infrastructure/http/v1"
	"wikihost/internal/infrastructure/http/v1/middleware"
	"wikihost/internal/infrastructure/metrics"
	"wikihost/internal/infrastructure/storage/postgres"
	"wikihost/internal/infrastructure/storage/postgres/admin_repo"
	"wikihost/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting wikihost admin server", "env", cfg.App.Env)

	// --- Database ---
	if cfg.App.Migrate {
		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			log.Fatalw("failed to migrate database", "error", err)
		}
		log.Info("database schema is up to date")
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Infow("database connection established", "max_conns", poolCfg.MaxConns)

	txm := postgres.NewTxManager(pool, cfg.Database.Timeout)

	// --- Metrics ---
	m := metrics.New()
	m.RegisterPool(pool)

	// --- Admin service ---
	adminService := admin.NewService(admin.ServiceConfig{
		Catalog:  admin.MustCatalog(),
		Actors:   admin_repo.NewActorRepo(txm),
		Search:   admin_repo.NewPatternSearch(admin.SearchColumns),
		Stores:   admin_repo.NewStores(txm),
		Stats:    admin_repo.NewStatsRepo(txm),
		Observer: m,
	})

	// --- JWT ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Rate limiting ---
	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 15*time.Minute)
		go sweepLimiter(ctx, limiter, time.Minute)
	}
	go logPoolStats(ctx, pool, 5*time.Minute)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Database:     pool,
		JWTValidator: jwtService,
		AdminService: adminService,
		Metrics:      m,
		RateLimiter:  limiter,
	})

	var handler http.Handler = router
	if cfg.App.Gzip {
		handler = gzhttp.GzipHandler(router)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "gzip", cfg.App.Gzip)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func sweepLimiter(ctx context.Context, rl *middleware.RateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Sweep(); n > 0 {
				logger.Debug(ctx, "rate limiter swept idle clients", "dropped", n, "tracked", rl.Len())
			}
		}
	}
}

func logPoolStats(ctx context.Context, pool *postgres.Pool, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			postgres.LogPoolStats(ctx, pool.Pool)
		}
	}
}
