package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportmania/sportmania-backend/pkg/clientip"
)

const (
	// RateLimitWindow bounds how many requests an IP may make.
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests within the window before the IP is blocked.
	RateLimitMaxRequests = 25
	// BlockedIPDuration is how long an offending IP stays blocked.
	BlockedIPDuration = 24 * time.Hour

	rateLimitKeyPrefix = "ratelimit:"
	blockedIPKeyPrefix = "blocked_ip:"
)

// RateLimit counts requests per client IP in Redis and temporarily
// blocks IPs that exceed the window limit. Redis failures fail open.
func RateLimit(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientip.FromRequest(r)

			blocked, err := rdb.Exists(ctx, blockedIPKeyPrefix+ip).Result()
			if err == nil && blocked > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`))
				return
			}

			key := rateLimitKeyPrefix + ip
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Fail open
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, RateLimitWindow)
			}

			if count > RateLimitMaxRequests {
				rdb.Set(ctx, blockedIPKeyPrefix+ip, "1", BlockedIPDuration)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}
