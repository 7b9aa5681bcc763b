package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/account_balance/internal/httpx"
)

const (
	rateLimitPrefix  = "rl:balance:"
	rateLimitTimeout = 250 * time.Millisecond
)

// RateLimit caps requests per client IP per minute using a Redis counter.
// It is a no-op without Redis and fails open on Redis errors.
func RateLimit(cache *redis.Client, maxPerMin int, logger *slog.Logger) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 60
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), rateLimitTimeout)
		defer cancel()

		key := rateLimitPrefix + c.IP()
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			if logger != nil {
				logger.Warn("rate limiter unavailable", slog.String("op", "incr"), slog.Any("error", err))
			}
			return c.Next()
		}
		if cnt == 1 {
			if err := cache.Expire(ctx, key, time.Minute).Err(); err != nil && logger != nil {
				logger.Warn("rate limiter unavailable", slog.String("op", "expire"), slog.Any("error", err))
			}
		}

		remaining := int64(maxPerMin) - cnt
		if remaining < 0 {
			remaining = 0
		}
		c.Set("X-RateLimit-Limit", strconv.Itoa(maxPerMin))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if cnt > int64(maxPerMin) {
			return httpx.Error(c, http.StatusTooManyRequests, "too many requests, try again later")
		}
		return c.Next()
	}
}
