package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.App.Gzip)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Database.Timeout)
	assert.Equal(t, DevSecret, cfg.JWT.Secret)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "WIKIHOST_DATABASE_URL=postgres://file/db\n" +
		"WIKIHOST_APP_PORT=9000\n" +
		"WIKIHOST_JWT_TTL=1h\n" +
		"OTHER_SETTING=ignored\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WIKIHOST_APP_PORT", "9100")
	t.Setenv("WIKIHOST_DATABASE_MAXCONNS", "4")
	t.Setenv("WIKIHOST_RATELIMIT_RPS", "2.5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/db", cfg.Database.URL)
	assert.Equal(t, 9100, cfg.App.Port)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       AppConfig{Env: "development", Port: 8080},
			Database:  DatabaseConfig{URL: "postgres://x"},
			JWT:       JWTConfig{Secret: DevSecret},
			RateLimit: RateLimitConfig{Enabled: true, RPS: 1, Burst: 1},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no database", func(c *Config) { c.Database.URL = "" }},
		{"bad port", func(c *Config) { c.App.Port = 0 }},
		{"no secret", func(c *Config) { c.JWT.Secret = "" }},
		{"dev secret in production", func(c *Config) { c.App.Env = "production" }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
