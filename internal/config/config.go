// Package config loads process configuration from an optional .env file and
// WIKIHOST_* environment variables. WIKIHOST_DATABASE_URL maps to database.url.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Prefix is stripped from environment variable names.
const Prefix = "WIKIHOST_"

// Config is the full process configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type AppConfig struct {
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port"`
	Migrate bool   `mapstructure:"migrate"`
	Gzip    bool   `mapstructure:"gzip"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	URL      string        `mapstructure:"url"`
	MaxConns int32         `mapstructure:"maxconns"`
	MinConns int32         `mapstructure:"minconns"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig bounds requests per client IP on the admin routes.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// DevSecret is the JWT secret used when none is configured. Refused in production.
const DevSecret = "wikihost-dev-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.migrate", false)
	v.SetDefault("app.gzip", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.url", "")
	v.SetDefault("database.maxconns", 10)
	v.SetDefault("database.minconns", 2)
	v.SetDefault("database.timeout", 30*time.Second)
	v.SetDefault("jwt.secret", DevSecret)
	v.SetDefault("jwt.issuer", "wikihost")
	v.SetDefault("jwt.ttl", 12*time.Hour)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rps", 10.0)
	v.SetDefault("ratelimit.burst", 20)
}

// Load reads ./.env (if present) and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads the given dotenv file (if present) and the environment.
// Environment variables win over the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := mergeDotenv(v, path); err != nil {
		return nil, err
	}
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		setPrefixed(v, key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func mergeDotenv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("env")
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, key := range file.AllKeys() {
		setPrefixed(v, key, file.GetString(key))
	}
	return nil
}

// setPrefixed maps WIKIHOST_DATABASE_URL to database.url. Other names are ignored.
func setPrefixed(v *viper.Viper, key, value string) {
	upper := strings.ToUpper(key)
	if !strings.HasPrefix(upper, Prefix) {
		return
	}
	prop := strings.ToLower(strings.TrimPrefix(upper, Prefix))
	prop = strings.Trim(strings.ReplaceAll(prop, "_", "."), ".")
	if prop == "" {
		return
	}
	v.Set(prop, value)
}

// IsProduction reports whether app.env is "production".
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required (WIKIHOST_DATABASE_URL)")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port out of range: %d", c.App.Port)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required (WIKIHOST_JWT_SECRET)")
	}
	if c.IsProduction() && c.JWT.Secret == DevSecret {
		return errors.New("jwt.secret must be set in production")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("ratelimit.rps and ratelimit.burst must be positive")
	}
	return nil
}
