package redisclient

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// Locker guards the booking critical section for one (owner, date, start)
// slot so two visitors cannot race each other into the same appointment.
// If Redis is unreachable the section runs lock-free and the appointments
// unique index is the only guard against a double write.
type Locker interface {
	WithSlotLock(ctx context.Context, ownerID uuid.UUID, date, start string, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker creates a locker that uses a per slot Redis key
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, ownerID uuid.UUID, date, start string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%s:%s:%s", ownerID.String(), date, start)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	switch {
	case err != nil:
		// Redis being unreachable downgrades booking to lock-free: the unique
		// index on appointments still rejects a double write with a conflict.
		log.Printf("slot lock unavailable, proceeding without it key=%s: %v", key, err)
	case !ok:
		return ErrLockNotAcquired
	default:
		defer func() {
			_ = l.release(ctx, key, token)
		}()
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}
