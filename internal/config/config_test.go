package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "REDIS_URL", "STOREFRONT_DATABASE_URL", "STOREFRONT_REDIS_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 9090, cfg.GRPC.Port)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "storefront:products", cfg.Realtime.Channel)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ProductTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Empty(t, cfg.Auth.AdminUsername)
	assert.Equal(t, 10.0, cfg.RateLimit.RPS)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.True(t, cfg.Catalog.Seed)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_HTTP_PORT", "9000")
	t.Setenv("STOREFRONT_AUTH_TOKEN_TTL", "1h")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DATABASE_URL", "postgres://legacy")
	t.Setenv("STOREFRONT_AUTH_ADMIN_USERNAME", "owner")
	t.Setenv("STOREFRONT_AUTH_ADMIN_PASSWORD", "s3cret-pass")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "owner", cfg.Auth.AdminUsername)
	assert.Equal(t, "s3cret-pass", cfg.Auth.AdminPassword)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "postgres://legacy", cfg.Database.URL)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	yaml := `
http:
  port: 8181
log:
  level: debug
  format: console
catalog:
  seed: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Catalog.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("zero burst", func(t *testing.T) {
		t.Setenv("STOREFRONT_RATELIMIT_BURST", "0")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("admin username without password", func(t *testing.T) {
		t.Setenv("STOREFRONT_AUTH_ADMIN_USERNAME", "owner")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("short admin password", func(t *testing.T) {
		t.Setenv("STOREFRONT_AUTH_ADMIN_USERNAME", "owner")
		t.Setenv("STOREFRONT_AUTH_ADMIN_PASSWORD", "abc")
		_, err := Load("")
		assert.Error(t, err)
	})
}
