package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on, so every command
// fails with a dial error.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestWithSlotLockRedisDownRunsLockFree(t *testing.T) {
	l := NewRedisSlotLocker(unreachableClient(), time.Second)

	ran := false
	err := l.WithSlotLock(context.Background(), uuid.New(), "2025-06-09", "09:00", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithSlotLockRedisDownPropagatesFnError(t *testing.T) {
	l := NewRedisSlotLocker(unreachableClient(), time.Second)

	sentinel := errors.New("persist failed")
	err := l.WithSlotLock(context.Background(), uuid.New(), "2025-06-09", "09:00", func(ctx context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}
