package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"jejakliqo_backend/internals/configs"
)

// CorsMiddleware: origin dari CORS_ALLOW_ORIGINS (dipisah koma).
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     configs.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173, http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Content-Disposition, X-Request-ID",
		AllowCredentials: true,
	})
}
