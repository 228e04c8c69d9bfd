// Package genlock keeps two itinerary generations for the same trip, weekend
// and region from running at once. With Redis configured the lock is shared
// across API instances; without it every acquire succeeds.
package genlock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// keyPrefix namespaces lock keys in a shared Redis.
const keyPrefix = "hike-planner:itinerary-lock:"

// releaseScript deletes the key only if it still holds our token, so a lock
// that expired and was taken by another caller is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Release gives a lock back. It is safe to call more than once.
type Release func()

// Locker hands out exclusive locks by key.
type Locker interface {
	// Acquire takes the lock for key. Returns domain.ErrConflict when someone
	// else holds it.
	Acquire(ctx context.Context, key string) (Release, error)
}

// Key builds the lock key for one itinerary combination.
func Key(tripID uuid.UUID, weekendKey, regionID string) string {
	return fmt.Sprintf("%s:%s:%s", tripID, weekendKey, regionID)
}

// RedisLocker is a Locker backed by SET NX with a TTL. The TTL bounds how long
// a crashed holder can block others.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLocker returns a Locker using rdb. ttl should exceed the generation
// timeout.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	full := keyPrefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, full, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("genlock.RedisLocker.Acquire: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("genlock.RedisLocker.Acquire: %s: %w", key, domain.ErrConflict)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The request context may already be cancelled by the time we release.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{full}, token).Err(); err != nil {
			slog.Warn("genlock: release failed", "key", key, "error", err)
		}
	}, nil
}

// Noop is the Locker used when Redis is not configured.
type Noop struct{}

// Acquire implements Locker and always succeeds.
func (Noop) Acquire(context.Context, string) (Release, error) {
	return func() {}, nil
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("genlock.Connect: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("genlock.Connect: ping: %w", err)
	}
	return rdb, nil
}
