package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/studio-backend/internal/database"
)

const (
	// CacheKeyPrefix namespaces cached JSON values in Redis.
	CacheKeyPrefix  = "cache:"
	DefaultCacheTTL = 8 * time.Hour
	MinCacheTTL     = 6 * time.Hour
	MaxCacheTTL     = 12 * time.Hour

	// PackagesCacheKey holds the public package list.
	PackagesCacheKey = "packages:active"
)

// CacheService stores JSON values in Redis. Public listings change only on
// admin edits, which delete the key, so long TTLs are safe.
type CacheService struct {
	ttl time.Duration
}

// NewCacheService returns a cache whose Set uses ttl clamped to 6-12 hours.
func NewCacheService(ttl time.Duration) *CacheService {
	return &CacheService{ttl: clampTTL(ttl)}
}

// Cache is the shared instance used by handlers.
var Cache = NewCacheService(DefaultCacheTTL)

func clampTTL(ttl time.Duration) time.Duration {
	if ttl < MinCacheTTL {
		return MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// CacheKey joins key parts with ':' (CacheKey("packages", "active")).
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get decodes the cached value into dest. A miss is (false, nil); Redis
// failures are returned so callers can log them and fall through.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value with ttl clamped to 6-12 hours.
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return database.RedisClient.Set(ctx, CacheKeyPrefix+key, data, clampTTL(ttl)).Err()
}

func (c *CacheService) Delete(ctx context.Context, key string) error {
	return database.RedisClient.Del(ctx, CacheKeyPrefix+key).Err()
}

// Cached returns the value under key, calling load and storing its result on
// a miss. Cache errors are logged and never hide a successful load.
func Cached[T any](ctx context.Context, c *CacheService, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	hit, err := c.Get(ctx, key, &v)
	if err != nil {
		log.Printf("⚠️  %v", err)
	}
	if hit {
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Printf("⚠️  cache set %s: %v", key, err)
	}
	return v, nil
}
