// Package services contains adapters to external systems used by the business flows
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/spam-guard/models"
	"github.com/redis/go-redis/v9"
)

// VerdictCache memoizes spam lookups by normalized number.
// Get reports hit=false when nothing is cached; a hit with a nil record means "not spam".
// Invalidate holds the key for one TTL: a Set racing a registry write is dropped
// instead of caching the verdict read before the write committed.
type VerdictCache interface {
	Get(ctx context.Context, number string) (record *models.SpamNumber, hit bool, err error)
	Set(ctx context.Context, number string, record *models.SpamNumber) error
	Invalidate(ctx context.Context, number string) error
}

type cachedVerdict struct {
	Spam   bool               `json:"spam"`
	Record *models.SpamNumber `json:"record,omitempty"`
}

// invalidatedMarker occupies a key after Invalidate so SETNX refuses stale writes
const invalidatedMarker = "-"

// RedisVerdictCache stores verdicts as JSON strings with a TTL
type RedisVerdictCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisVerdictCache returns a Redis backed cache, or a no-op cache when rc is nil
func NewRedisVerdictCache(rc *redis.Client, prefix string, ttl time.Duration) VerdictCache {
	if rc == nil {
		return NewNoopVerdictCache()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisVerdictCache{rc: rc, prefix: prefix, ttl: ttl}
}

// VerdictCacheKey builds the Redis key for a number
func VerdictCacheKey(prefix, number string) string {
	return fmt.Sprintf("%sverdict:%s", prefix, number)
}

func (c *RedisVerdictCache) Get(ctx context.Context, number string) (*models.SpamNumber, bool, error) {
	bs, err := c.rc.Get(ctx, VerdictCacheKey(c.prefix, number)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read verdict cache: %w", err)
	}
	if string(bs) == invalidatedMarker {
		return nil, false, nil
	}

	var v cachedVerdict
	if err := json.Unmarshal(bs, &v); err != nil {
		// Unreadable entry: drop it and fall back to storage
		_ = c.rc.Del(ctx, VerdictCacheKey(c.prefix, number)).Err()
		return nil, false, nil
	}
	if !v.Spam {
		return nil, true, nil
	}
	return v.Record, true, nil
}

func (c *RedisVerdictCache) Set(ctx context.Context, number string, record *models.SpamNumber) error {
	bs, err := json.Marshal(cachedVerdict{Spam: record != nil, Record: record})
	if err != nil {
		return err
	}
	if err := c.rc.SetNX(ctx, VerdictCacheKey(c.prefix, number), bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write verdict cache: %w", err)
	}
	return nil
}

func (c *RedisVerdictCache) Invalidate(ctx context.Context, number string) error {
	if err := c.rc.Set(ctx, VerdictCacheKey(c.prefix, number), invalidatedMarker, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate verdict cache: %w", err)
	}
	return nil
}

type noopVerdictCache struct{}

// NewNoopVerdictCache returns a cache that never hits
func NewNoopVerdictCache() VerdictCache {
	return noopVerdictCache{}
}

func (noopVerdictCache) Get(context.Context, string) (*models.SpamNumber, bool, error) {
	return nil, false, nil
}

func (noopVerdictCache) Set(context.Context, string, *models.SpamNumber) error { return nil }

func (noopVerdictCache) Invalidate(context.Context, string) error { return nil }
