package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultAddr     = ":8080"
	DefaultDSN      = "file:centre.db?cache=shared&mode=rwc"
	DefaultTokenTTL = 24 * time.Hour
)

// Config carries everything the server needs from the environment.
type Config struct {
	Addr       string
	DSN        string
	SigningKey string
	TokenTTL   time.Duration
	ContextKey string
	AuthScheme string
	Debug      bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getenv("ADDR", DefaultAddr),
		DSN:        getenv("DSN", DefaultDSN),
		SigningKey: os.Getenv("JWT_SECRET"),
		ContextKey: getenv("AUTH_CONTEXT_KEY", "principal"),
		AuthScheme: getenv("AUTH_SCHEME", "Bearer"),
	}

	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	ttl, err := getduration("JWT_TTL", DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	debug, err := getbool("DEBUG", false)
	if err != nil {
		return nil, err
	}
	cfg.Debug = debug

	return cfg, nil
}

// GetSigningKey implements auth.Config.
func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

// GetTokenTTL implements auth.Config.
func (c *Config) GetTokenTTL() time.Duration {
	return c.TokenTTL
}

// GetContextKey implements auth.Config.
func (c *Config) GetContextKey() string {
	return c.ContextKey
}

// GetAuthScheme implements auth.Config.
func (c *Config) GetAuthScheme() string {
	return c.AuthScheme
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getbool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
