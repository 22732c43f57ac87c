package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when the lock is owned by another attempt.
var ErrLockHeld = errors.New("lock is held")

// releaseScript deletes the lock only if the token still matches, so a lock
// that expired and was re-acquired by someone else is never released by the
// original owner.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker provides mutual exclusion across service instances. Locks carry a
// TTL so a crashed holder cannot wedge a key forever.
type Locker interface {
	// Acquire takes the lock or fails immediately with ErrLockHeld.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	// AcquireWait retries acquisition with backoff until the wait budget or
	// the context expires.
	AcquireWait(ctx context.Context, key string, ttl, wait time.Duration) (token string, err error)
	Release(ctx context.Context, key, token string) error
}

type redisLocker struct {
	client *redis.Client
}

// NewLocker creates a Redis SetNX-based Locker.
func NewLocker(client *redis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !ok {
		return "", ErrLockHeld
	}
	return token, nil
}

func (l *redisLocker) AcquireWait(ctx context.Context, key string, ttl, wait time.Duration) (string, error) {
	deadline := time.Now().Add(wait)
	delay := 10 * time.Millisecond
	for {
		token, err := l.Acquire(ctx, key, ttl)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrLockHeld) {
			return "", err
		}
		if time.Now().Add(delay).After(deadline) {
			return "", ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		if delay < 200*time.Millisecond {
			delay *= 2
		}
	}
}

func (l *redisLocker) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("lock release failed: %w", err)
	}
	return nil
}
