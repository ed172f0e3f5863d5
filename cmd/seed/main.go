// Package main seeds a development database with users, sites and tspot sites,
// then prints an admin bearer token for the API.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wikihost/internal/config"
	"wikihost/internal/domain/auth"
	"wikihost/internal/infrastructure/storage/postgres"
	"wikihost/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("WIKIHOST_DATABASE_URL is required")
	}

	ctx := logger.WithLogger(context.Background(), log)

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		log.Fatalw("failed to migrate database", "error", err)
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool, cfg.Database.Timeout)

	var existing int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&existing); err != nil {
		log.Fatalw("failed to count users", "error", err)
	}
	if existing > 0 {
		log.Infow("database already has users, skipping seed", "users", existing)
	} else {
		adminPassword := envOr("ADMIN_PASSWORD", "Admin123!")
		if err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return seed(ctx, txm, adminPassword, envInt("SEED_SITES", 60))
		}); err != nil {
			log.Fatalw("failed to seed", "error", err)
		}
		log.Info("seeding completed successfully")
	}

	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	token, expires, err := auth.NewJWTService(jwtConfig).GenerateAccessToken(auth.Subject{
		UserID:   "1",
		Email:    adminEmail,
		Username: "admin",
		IsAdmin:  true,
	})
	if err != nil {
		log.Fatalw("failed to issue token", "error", err)
	}
	fmt.Printf("admin token (expires %s):\n%s\n", expires.Format(time.RFC3339), token)
}

const adminEmail = "admin@wikihost.local"

type userRow struct {
	ID              int64      `db:"id"`
	Email           string     `db:"email"`
	Username        *string    `db:"username"`
	PasswordDigest  *string    `db:"password_digest"`
	IsAdmin         bool       `db:"is_admin"`
	CreatedIP       *string    `db:"created_ip"`
	SignInCount     int        `db:"sign_in_count"`
	CurrentSignInAt *time.Time `db:"current_sign_in_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

type siteRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	UserID       *int64    `db:"user_id"`
	IsPrivate    bool      `db:"is_private"`
	IsSearchable bool      `db:"is_searchable"`
	AccessCount  int64     `db:"access_count"`
	SaveCount    int64     `db:"save_count"`
	TwKind       *string   `db:"tw_kind"`
	TwVersion    *string   `db:"tw_version"`
	RawByteSize  *int64    `db:"raw_byte_size"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type tspotSiteRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	UserID      *int64    `db:"user_id"`
	Exists      bool      `db:"exists"`
	IsPrivate   bool      `db:"is_private"`
	AccessCount int64     `db:"access_count"`
	SaveCount   int64     `db:"save_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func seed(ctx context.Context, txm *postgres.TxManager, adminPassword string, siteCount int) error {
	digest, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	pw := string(digest)
	now := time.Now().UTC()

	users := []userRow{
		{ID: 1, Email: adminEmail, Username: ptr("admin"), PasswordDigest: &pw, IsAdmin: true, SignInCount: 12, CurrentSignInAt: &now, CreatedAt: now.AddDate(0, -6, 0)},
		{ID: 2, Email: "alice@example.com", Username: ptr("alice"), PasswordDigest: &pw, CreatedIP: ptr("10.0.0.2"), SignInCount: 3, CurrentSignInAt: ptr(now.AddDate(0, 0, -2)), CreatedAt: now.AddDate(0, -3, 0)},
		{ID: 3, Email: "bob@example.com", CreatedIP: ptr("10.0.0.3"), CreatedAt: now.AddDate(0, -1, 0)},
		{ID: 4, Email: "carol@example.com", Username: ptr("carol"), SignInCount: 1, CreatedAt: now.AddDate(0, 0, -5)},
	}
	if _, err := postgres.CopyStructs(ctx, txm, "users", users); err != nil {
		return err
	}

	kinds := []string{"tiddlywiki", "feather", "classic"}
	sites := make([]siteRow, 0, siteCount)
	tspot := make([]tspotSiteRow, 0, siteCount/2)
	for i := 1; i <= siteCount; i++ {
		created := now.Add(-time.Duration(rand.IntN(90*24)) * time.Hour)
		s := siteRow{
			ID:           int64(i),
			Name:         "site-" + strconv.Itoa(i),
			IsPrivate:    i%3 == 0,
			IsSearchable: i%4 == 0,
			AccessCount:  rand.Int64N(500),
			SaveCount:    rand.Int64N(40),
			CreatedAt:    created,
			UpdatedAt:    created.Add(time.Duration(rand.IntN(48)) * time.Hour),
		}
		if i%5 != 0 {
			s.Description = ptr(fmt.Sprintf("Notebook number %d", i))
		}
		if i%7 != 0 {
			s.UserID = ptr(int64(i%len(users) + 1))
		}
		if i%6 != 0 {
			s.TwKind = ptr(kinds[i%len(kinds)])
			s.TwVersion = ptr(fmt.Sprintf("5.3.%d", i%6))
			s.RawByteSize = ptr(int64(200_000 + rand.IntN(4_000_000)))
		}
		sites = append(sites, s)

		if i%2 == 0 {
			t := tspotSiteRow{
				ID:          int64(i / 2),
				Name:        "tspot-" + strconv.Itoa(i/2),
				Exists:      i%8 != 0,
				IsPrivate:   i%6 == 0,
				AccessCount: rand.Int64N(300),
				SaveCount:   rand.Int64N(10),
				CreatedAt:   created,
				UpdatedAt:   created.Add(time.Hour),
			}
			if i%3 != 0 {
				t.UserID = s.UserID
			}
			tspot = append(tspot, t)
		}
	}
	if _, err := postgres.CopyStructs(ctx, txm, "sites", sites); err != nil {
		return err
	}
	if _, err := postgres.CopyStructs(ctx, txm, "tspot_sites", tspot); err != nil {
		return err
	}

	queries := []postgres.BatchQuery{
		{SQL: "INSERT INTO pay_customers (id, owner_id) VALUES (1, 2)"},
		{SQL: "INSERT INTO pay_subscriptions (customer_id, status) VALUES (1, 'active')"},
		{SQL: "INSERT INTO pay_customers (id, owner_id) VALUES (2, 4)"},
		{SQL: "INSERT INTO pay_subscriptions (customer_id, status) VALUES (2, 'canceled')"},
	}
	for _, table := range []string{"users", "sites", "tspot_sites", "pay_customers"} {
		queries = append(queries, postgres.BatchQuery{
			SQL: fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table),
		})
	}
	return postgres.ExecuteBatch(ctx, txm, queries)
}

func ptr[T any](v T) *T { return &v }

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}
