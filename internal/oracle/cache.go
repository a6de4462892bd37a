package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// Cache stores normalized oracle results keyed by a content-derived string.
// Implementations must be safe for concurrent use. Get reports found=false
// for unseen or expired keys and never treats a miss as an error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CoarseCoord rounds a coordinate to 2 decimal degrees (~1.1 km buckets) so
// repeated scans of the same subject in the same vicinity share a cache key.
func CoarseCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// MemoryCache is a bounded in-process cache: LRU with a fixed entry cap and a
// constructor TTL that bounds every entry's lifetime. The per-call TTL is
// honored through a deadline stored with the entry, so a Set with a shorter
// TTL expires earlier than the constructor default. Values round-trip through
// JSON so Get fills dest the same way the Redis-backed cache does.
type MemoryCache struct {
	entries *lru.LRU[string, memoryEntry]
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: lru.NewLRU[string, memoryEntry](maxEntries, nil, ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return false, fmt.Errorf("decode cached entry: %w", err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	entry := memoryEntry{payload: raw}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Add(key, entry)
	return nil
}

// RedisCache stores entries in Redis so cache hits survive restarts and are
// shared across instances. TTL is per entry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached entry: %w", err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
