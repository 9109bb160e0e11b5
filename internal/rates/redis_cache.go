package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisCachePrefix = "rates:v1:"

// RedisCache shares fetched rate sets between API replicas. Expiry is
// delegated to the Redis key TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a Redis-backed Cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

type redisEntry struct {
	Rates     RateSet   `json:"rates"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Get returns the cached set for base if the key has not expired.
func (c *RedisCache) Get(ctx context.Context, base string) (RateSet, bool, error) {
	raw, err := c.client.Get(ctx, redisCachePrefix+base).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get rates: %w", err)
	}
	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached rates: %w", err)
	}
	return entry.Rates, true, nil
}

// Put stores set under base with the configured TTL.
func (c *RedisCache) Put(ctx context.Context, base string, set RateSet) error {
	payload, err := json.Marshal(redisEntry{Rates: set, FetchedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}
	if err := c.client.Set(ctx, redisCachePrefix+base, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set rates: %w", err)
	}
	return nil
}
