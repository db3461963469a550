package main

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfigDefaults tests the values used when nothing is set
func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "WORKERS", "STORE_ENABLED", "CACHE_SIZE", "CACHE_TTL", "ALLOWED_ORIGINS", "DB_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.True(t, cfg.StoreEnabled)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.AllowedOrigins)
}

// TestNewConfigFromEnv tests environment overrides
func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WORKERS", "3")
	t.Setenv("STORE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://stats.example.com,https://example.com")
	t.Setenv("DB_NAME", "gameday")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.StoreEnabled)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://stats.example.com", "https://example.com"}, cfg.AllowedOrigins)

	pool := cfg.PoolConfig()
	assert.Equal(t, "gameday", pool.Name)
	assert.Equal(t, 3, pool.Workers)
}

// TestNewConfigInvalid tests rejected values
func TestNewConfigInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric workers", "WORKERS", "many"},
		{"zero workers", "WORKERS", "0"},
		{"zero cache size", "CACHE_SIZE", "0"},
		{"bad duration", "CACHE_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
