package cache

import (
	"context"
	"strings"
	"time"
)

const searchLockTTL = 30 * time.Second

// SearchCache stores job search pages as JSON under keys sharing one prefix.
type SearchCache struct {
	redis  *Redis
	prefix string
	ttl    time.Duration

	observe func(hit bool)
}

func NewSearchCache(r *Redis, prefix string, ttl time.Duration) *SearchCache {
	return &SearchCache{redis: r, prefix: prefix, ttl: ttl}
}

// OnLookup registers a callback run after every Get that reached Redis.
func (c *SearchCache) OnLookup(fn func(hit bool)) *SearchCache {
	c.observe = fn
	return c
}

func (c *SearchCache) Get(ctx context.Context, key string, out any) (bool, error) {
	hit, err := c.redis.GetJSON(ctx, key, out)
	if err == nil && c.observe != nil && c.redis.Available() {
		c.observe(hit)
	}
	return hit, err
}

func (c *SearchCache) Set(ctx context.Context, key string, value any) error {
	return c.redis.SetJSON(ctx, key, value, c.ttl)
}

func (c *SearchCache) Invalidate(ctx context.Context) error {
	return c.redis.DeleteByPattern(ctx, c.prefix+"*")
}

// Lock claims the right to rebuild a missed key. It reports false when another
// request holds the claim or Redis is unavailable.
func (c *SearchCache) Lock(ctx context.Context, key string) (bool, error) {
	return c.redis.SetIfNotExists(ctx, c.lockKey(key), "1", searchLockTTL)
}

func (c *SearchCache) Unlock(ctx context.Context, key string) error {
	return c.redis.Delete(ctx, c.lockKey(key))
}

// lockKey lives under the cache prefix so Invalidate also clears stale claims.
func (c *SearchCache) lockKey(key string) string {
	return c.prefix + "lock:" + strings.TrimPrefix(key, c.prefix)
}
