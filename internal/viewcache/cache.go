// Package viewcache caches rendered admin views in Redis and carries the
// invalidation signal the appointment workflow raises after every mutation.
package viewcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meditrack/meditrack-server/pkg/logging"
)

// ErrMiss is returned when a path has no cached payload.
var ErrMiss = errors.New("viewcache: miss")

// Cache stores rendered view payloads by path.
type Cache interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, payload []byte) error
	Invalidate(ctx context.Context, path string) error
}

// RedisCache is a Cache backed by Redis with a fixed TTL per entry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisCache creates a view cache on the given client.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisCache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(path string) string {
	return "meditrack:view:" + path
}

// Get returns the cached payload for path, or ErrMiss.
func (c *RedisCache) Get(ctx context.Context, path string) ([]byte, error) {
	payload, err := c.client.Get(ctx, cacheKey(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("viewcache: get %s: %w", path, err)
	}
	return payload, nil
}

// Set stores the payload for path until the TTL expires or the path is
// invalidated.
func (c *RedisCache) Set(ctx context.Context, path string, payload []byte) error {
	if err := c.client.Set(ctx, cacheKey(path), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("viewcache: set %s: %w", path, err)
	}
	return nil
}

// Invalidate marks the cached view for path as stale by deleting it.
func (c *RedisCache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, cacheKey(path)).Err(); err != nil {
		return fmt.Errorf("viewcache: invalidate %s: %w", path, err)
	}
	c.logger.Debug("view invalidated", "path", path)
	return nil
}

// NoopCache satisfies Cache when Redis is not configured: every read misses
// and invalidation is a no-op.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, path string) ([]byte, error) { return nil, ErrMiss }
func (NoopCache) Set(ctx context.Context, path string, payload []byte) error { return nil }
func (NoopCache) Invalidate(ctx context.Context, path string) error          { return nil }

var _ Cache = (*RedisCache)(nil)
var _ Cache = NoopCache{}
