package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mindscribe/mindscribe-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// InsightsCacheTTL bounds staleness of derived views; writes also
	// invalidate eagerly, so this is only a backstop.
	InsightsCacheTTL = time.Hour
)

// CacheService caches derived read-only views in Redis. All operations fail
// open: when Redis is not configured or unavailable, reads are misses and
// writes are dropped.
type CacheService struct{}

// Get retrieves a cached JSON value into dest. Returns false on miss.
func (c *CacheService) Get(key string, dest interface{}) bool {
	if database.RedisClient == nil {
		return false
	}

	ctx := context.Background()
	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value as JSON with the given TTL.
func (c *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	if database.RedisClient == nil {
		return
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return
	}

	ctx := context.Background()
	database.RedisClient.Set(ctx, CacheKeyPrefix+key, jsonData, ttl)
}

// Delete removes cached values.
func (c *CacheService) Delete(keys ...string) {
	if database.RedisClient == nil || len(keys) == 0 {
		return
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, CacheKeyPrefix+k)
	}

	ctx := context.Background()
	database.RedisClient.Del(ctx, prefixed...)
}

// Global cache service instance
var Cache = &CacheService{}
