package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	menteeController "jejakliqo_backend/internals/features/liqo/mentees/controller"
)

// Base: /api/mentees
func MenteeAdminRoutes(api fiber.Router, db *gorm.DB, mw ...fiber.Handler) {
	ctrl := menteeController.NewMenteeController(db)

	m := api.Group("/mentees", mw...)
	m.Get("/", ctrl.List)
	m.Get("/trashed", ctrl.Trashed)
	m.Get("/stats", ctrl.Stats)
	m.Get("/export", ctrl.Export)
	m.Get("/:id", ctrl.Detail)
	m.Get("/:id/histories", ctrl.Histories)
	m.Post("/", ctrl.Create)
	m.Put("/:id", ctrl.Update)
	m.Delete("/:id", ctrl.Delete)
	m.Post("/:id/restore", ctrl.Restore)
	m.Delete("/:id/force", ctrl.ForceDelete)
}

// Base: /api/mentor/mentees
func MenteeMentorRoutes(api fiber.Router, db *gorm.DB, mw ...fiber.Handler) {
	ctrl := menteeController.NewMentorMenteeController(db)

	m := api.Group("/mentor/mentees", mw...)
	m.Get("/", ctrl.List)
	m.Get("/unassigned", ctrl.Unassigned)
}
