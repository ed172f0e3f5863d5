package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wikihost/internal/config"
	"wikihost/internal/domain/admin"
	"wikihost/internal/infrastructure/storage/postgres"
	"wikihost/internal/infrastructure/storage/postgres/admin_repo"
	"wikihost/pkg/logger"
)

type rootOptions struct {
	envFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "wikiadmin",
		Short:         "wikihost back office tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with WIKIHOST_* settings")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newListCmd(opts),
		newListingsCmd(),
		newStatsCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() (*config.Config, error) {
	return config.LoadFile(o.envFile)
}

func (o *rootOptions) logger() (*logger.Logger, error) {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, Development: true, OutputPaths: []string{"stderr"}})
}

// session is an open database plus the admin service built on it.
type session struct {
	ctx     context.Context
	pool    *postgres.Pool
	service *admin.Service
}

func (s *session) Close() {
	s.pool.Close()
}

func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("WIKIHOST_DATABASE_URL is not set")
	}
	log, err := o.logger()
	if err != nil {
		return nil, err
	}
	ctx = logger.WithLogger(ctx, log)

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = 2
	poolCfg.MinConns = 0
	poolCfg.ApplicationName = "wikiadmin"
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	txm := postgres.NewTxManager(pool, cfg.Database.Timeout)
	service := admin.NewService(admin.ServiceConfig{
		Catalog: admin.MustCatalog(),
		Actors:  admin_repo.NewActorRepo(txm),
		Search:  admin_repo.NewPatternSearch(admin.SearchColumns),
		Stores:  admin_repo.NewStores(txm),
		Stats:   admin_repo.NewStatsRepo(txm),
	})
	return &session{ctx: ctx, pool: pool, service: service}, nil
}
