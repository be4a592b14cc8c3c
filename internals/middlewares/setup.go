package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"jejakliqo_backend/internals/helpers/metrics"
	"jejakliqo_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global (urutan penting).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(metrics.Middleware())
	app.Use(GlobalRateLimiter())
}
