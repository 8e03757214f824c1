package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ADDR", "DSN", "JWT_SECRET", "JWT_TTL",
		"AUTH_CONTEXT_KEY", "AUTH_SCHEME", "DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultDSN, cfg.DSN)
	assert.Equal(t, "s3cret", cfg.SigningKey)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, "principal", cfg.ContextKey)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.False(t, cfg.Debug)
}

func TestLoadRequiresSigningKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADDR", ":9090")
	t.Setenv("DSN", "file:other.db")
	t.Setenv("JWT_TTL", "45m")
	t.Setenv("AUTH_SCHEME", "Token")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "file:other.db", cfg.DSN)
	assert.Equal(t, 45*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "Token", cfg.AuthScheme)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unparseable ttl", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_TTL", "tomorrow")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_TTL")
	})

	t.Run("unparseable debug flag", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DEBUG", "maybe")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DEBUG")
	})
}

func TestConfigSatisfiesTokenSettings(t *testing.T) {
	cfg := &Config{
		SigningKey: "k",
		TokenTTL:   time.Hour,
		ContextKey: "principal",
		AuthScheme: "Bearer",
	}

	assert.Equal(t, "k", cfg.GetSigningKey())
	assert.Equal(t, time.Hour, cfg.GetTokenTTL())
	assert.Equal(t, "principal", cfg.GetContextKey())
	assert.Equal(t, "Bearer", cfg.GetAuthScheme())
}
