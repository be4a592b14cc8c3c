package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "jejakliqo_backend/internals/features/users/auth/controller"
	rateLimiter "jejakliqo_backend/internals/middlewares"
	authMiddleware "jejakliqo_backend/internals/middlewares/auth"
)

// Base: /api/auth
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	requireAuth := authMiddleware.AuthMiddleware(db)
	auth.Post("/logout", requireAuth, authController.Logout)
	auth.Get("/me", requireAuth, authController.Me)
	auth.Put("/change-password", requireAuth, authController.ChangePassword)
}
