package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"jejakliqo_backend/internals/configs"
	helper "jejakliqo_backend/internals/helpers"
)

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        configs.GetEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// health & metrics tidak dibatasi
			p := c.Path()
			return p == "/" || p == "/health" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusTooManyRequests, "❌ Terlalu banyak permintaan. Silakan coba lagi nanti.")
		},
	})
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        configs.GetEnvInt("LOGIN_RATE_LIMIT_PER_MINUTE", 5),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusTooManyRequests, "❌ Terlalu banyak percobaan login. Coba beberapa saat lagi.")
		},
	})
}
