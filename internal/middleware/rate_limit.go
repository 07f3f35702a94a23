package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mkoba-pay/mkoba_pay/internal/phone"
)

// MoneyRateLimit caps money-movement requests per source phone per minute
// using Redis if available. Falls back to the client IP when no phone can be
// read from the body, and fails open on cache errors.
func MoneyRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			Phone     string `json:"phone"`
			FromPhone string `json:"from_phone"`
		}
		_ = c.BodyParser(&req)

		key := strings.TrimSpace(req.FromPhone)
		if key == "" {
			key = strings.TrimSpace(req.Phone)
		}
		if key != "" {
			key = phone.Normalize(key)
		} else {
			key = c.IP()
		}

		cacheKey := "rl:money:" + key
		cnt, err := cache.Incr(c.UserContext(), cacheKey).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), cacheKey, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests for this wallet, try again later")
		}
		return c.Next()
	}
}
