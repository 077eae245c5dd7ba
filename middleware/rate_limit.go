package middleware

import (
    "log"
    "net"
    "net/http"

    "github.com/go-redis/redis/v8"

    "tripay-ppob-api/config"
    "tripay-ppob-api/utils"
)

// RateLimiter applies a fixed-window request limit per client IP,
// counted in Redis so multiple instances share the window.
type RateLimiter struct {
    client *redis.Client
    cfg    config.RateLimitConfig
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
    return &RateLimiter{client: client, cfg: cfg}
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            if !rl.cfg.Enabled || rl.client == nil {
                next.ServeHTTP(w, r)
                return
            }

            key := "tripay:ratelimit:" + clientIP(r)
            count, err := rl.client.Incr(r.Context(), key).Result()
            if err != nil {
                // Redis being down must not take the API with it.
                log.Printf("Warning: rate limit check failed: %v", err)
                next.ServeHTTP(w, r)
                return
            }
            if count == 1 {
                rl.client.Expire(r.Context(), key, rl.cfg.Window)
            }

            if count > int64(rl.cfg.MaxAttempts) {
                log.Printf("Rate limit exceeded for %s on %s", clientIP(r), r.URL.Path)
                utils.SendErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please slow down your requests.")
                return
            }

            next.ServeHTTP(w, r)
        })
    }
}

func clientIP(r *http.Request) string {
    if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
        return fwd
    }
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}
