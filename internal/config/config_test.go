package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRedisTuningDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/booking")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.RedisTimeout)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.Equal(t, 1, cfg.RedisMinIdleConns)
}

func TestLoadRedisTuningOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/booking")
	t.Setenv("REDIS_TIMEOUT", "500ms")
	t.Setenv("REDIS_POOL_SIZE", "25")
	t.Setenv("REDIS_MIN_IDLE_CONNS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.RedisTimeout)
	assert.Equal(t, 25, cfg.RedisPoolSize)
	assert.Equal(t, 4, cfg.RedisMinIdleConns)
}
