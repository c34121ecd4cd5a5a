package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/pkg/clientip"
)

// The Redis limiter is a fixed window per IP. Going over the window puts the
// IP on a 24h block list that admins can inspect and clear.
const (
	RateLimitWindow      = 120 * time.Second
	RateLimitMaxRequests = 25
	RateLimitKeyPrefix   = "ratelimit:"
	BlockedIPKeyPrefix   = "blocked_ip:"
	BlockedIPDuration    = 24 * time.Hour
)

// windowCount increments the caller's counter, starting the window on the
// first hit.
func windowCount(ctx context.Context, ip string) (int64, error) {
	key := RateLimitKeyPrefix + ip
	var incr *redis.IntCmd
	_, err := database.RedisClient.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, RateLimitWindow)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimitMiddleware fails open when Redis is unavailable.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientip.RealClientIP(r)

		if blocked, err := IsIPBlocked(ctx, ip); err == nil && blocked {
			tooManyRequests(w, BlockedIPDuration, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		count, err := windowCount(ctx, ip)
		if err != nil {
			log.Printf("rate limit: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > RateLimitMaxRequests {
			if err := database.RedisClient.Set(ctx, BlockedIPKeyPrefix+ip, "1", BlockedIPDuration).Err(); err != nil {
				log.Printf("block ip %s: %v", ip, err)
			}
			log.Printf("🚫 Blocked %s for %s after %d requests", ip, BlockedIPDuration, count)
			tooManyRequests(w, BlockedIPDuration, "Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.")
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
		h.Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))
		next.ServeHTTP(w, r)
	})
}

// UnblockIP lifts a block and resets the IP's window.
func UnblockIP(ctx context.Context, ipAddress string) error {
	return database.RedisClient.Del(ctx, BlockedIPKeyPrefix+ipAddress, RateLimitKeyPrefix+ipAddress).Err()
}

func IsIPBlocked(ctx context.Context, ipAddress string) (bool, error) {
	count, err := database.RedisClient.Exists(ctx, BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}

// BlockedIP is an address currently refused by RateLimitMiddleware.
type BlockedIP struct {
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListBlockedIPs scans the blocked-IP keys and reports when each block lapses.
func ListBlockedIPs(ctx context.Context) ([]BlockedIP, error) {
	blocked := []BlockedIP{}
	iter := database.RedisClient.Scan(ctx, 0, BlockedIPKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := database.RedisClient.TTL(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if ttl <= 0 {
			continue
		}
		blocked = append(blocked, BlockedIP{
			IPAddress: strings.TrimPrefix(key, BlockedIPKeyPrefix),
			ExpiresAt: time.Now().Add(ttl).UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return blocked, nil
}
