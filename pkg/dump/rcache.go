package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CheckSummary is the small, cacheable subset of a comparison's outcome:
// enough for a caller to answer "is this pair compatible?" without
// re-running ingestion and detection.
type CheckSummary struct {
	Compatible  bool   `json:"compatible"`
	HighCount   int    `json:"high_count"`
	MediumCount int    `json:"medium_count"`
	LowCount    int    `json:"low_count"`
	CheckedAt   string `json:"checked_at"`
}

// ResultCache caches CheckSummary values keyed by (library, oldVersion,
// newVersion, level), so a repeated `check` of an unchanged pair doesn't
// redo the full comparison.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache connects to redisURL (a redis:// URL, parseable the same
// way as a direct redis-cli target) with the given cache entry TTL.
func NewResultCache(redisURL string, ttl time.Duration) (*ResultCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ResultCache{client: client, ttl: ttl}, nil
}

// NewResultCacheFromClient wraps an already-constructed redis.Client,
// letting tests inject a miniredis-backed instance.
func NewResultCacheFromClient(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func cacheKey(library, oldVersion, newVersion, level string) string {
	return fmt.Sprintf("japicc:check:%s:%s:%s:%s", library, oldVersion, newVersion, level)
}

// Get returns the cached summary for the given comparison, or (nil, nil) on
// a cache miss.
func (c *ResultCache) Get(ctx context.Context, library, oldVersion, newVersion, level string) (*CheckSummary, error) {
	raw, err := c.client.Get(ctx, cacheKey(library, oldVersion, newVersion, level)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary CheckSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Put stores summary for the given comparison, expiring after the cache's
// configured TTL.
func (c *ResultCache) Put(ctx context.Context, library, oldVersion, newVersion, level string, summary CheckSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(library, oldVersion, newVersion, level), raw, c.ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *ResultCache) Close() error {
	return c.client.Close()
}
