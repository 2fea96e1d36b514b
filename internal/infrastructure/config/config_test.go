package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "data/lexicon.json", cfg.Catalog.LexiconPath)
	assert.Equal(t, "data/universe.json", cfg.Catalog.UniversePath)
	assert.False(t, cfg.Lookup.Enabled)
	assert.Equal(t, CacheDriverMemory, cfg.Cache.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 0.6, cfg.Lookup.Breaker.FailureRatio, 1e-9)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RECIPE_LOOKUP_ENABLED", "true")
	t.Setenv("RECIPE_API_BASE_URL", "http://recipes.local")
	t.Setenv("APP_BATCH_WORKERS", "8")
	t.Setenv("CACHE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Lookup.Enabled)
	assert.Equal(t, "http://recipes.local", cfg.Lookup.BaseURL)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, CacheDriverRedis, cfg.Cache.Driver)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"LookupWithoutBaseURL", map[string]string{"RECIPE_LOOKUP_ENABLED": "true"}},
		{"UnknownCacheDriver", map[string]string{"CACHE_DRIVER": "memcached"}},
		{"ZeroWorkers", map[string]string{"APP_BATCH_WORKERS": "0"}},
		{"InvalidPort", map[string]string{"PORT": "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", maskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}
