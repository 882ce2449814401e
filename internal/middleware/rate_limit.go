package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/classroom-api/internal/utils"
)

const (
	defaultRateLimitMax    = 10
	defaultRateLimitWindow = time.Minute
)

// RateLimitConfig describes a named request budget.
type RateLimitConfig struct {
	Name   string
	Max    int
	Window time.Duration
	// Storage shares counters between instances. In-memory when nil.
	Storage fiber.Storage
}

// RateLimit counts requests per authenticated user, or per client IP for
// anonymous callers, and answers 429 once the window budget is spent.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = defaultRateLimitMax
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultRateLimitWindow
	}
	if cfg.Name == "" {
		cfg.Name = "default"
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return rateLimitKey(cfg.Name, c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, "too many requests", nil)
		},
	})
}

func rateLimitKey(name string, c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(uint); ok && userID != 0 {
		return fmt.Sprintf("%s:user:%d", name, userID)
	}
	return fmt.Sprintf("%s:ip:%s", name, c.IP())
}
