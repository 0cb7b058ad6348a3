package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TokenExpiry)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, 6, cfg.Pagination.DefaultLimit)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("JWT_TOKEN_EXPIRY", "1h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("PAGE_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.JWT.TokenExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 10, cfg.Pagination.DefaultLimit)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "Unknown database driver", key: "DB_DRIVER", value: "mysql"},
		{name: "Unknown media backend", key: "MEDIA_BACKEND", value: "ftp"},
		{name: "Zero page size", key: "PAGE_SIZE", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_TOKEN_EXPIRY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TokenExpiry)
}
