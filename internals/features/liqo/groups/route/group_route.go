package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupController "jejakliqo_backend/internals/features/liqo/groups/controller"
	"jejakliqo_backend/internals/helpers/storage"
)

// Middleware (auth + role) dipasang per prefix, bukan di Group("") supaya
// tidak ikut berlaku untuk prefix lain di bawah /api.

// Base: /api/groups
func GroupAdminRoutes(api fiber.Router, db *gorm.DB, store storage.Store, mw ...fiber.Handler) {
	ctrl := groupController.NewGroupController(db, store)

	g := api.Group("/groups", mw...)
	g.Get("/", ctrl.List)
	g.Get("/trashed", ctrl.Trashed)
	g.Post("/move-mentees", ctrl.MoveMentees)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/restore", ctrl.Restore)
	g.Delete("/:id/force", ctrl.ForceDelete)
	g.Get("/:id/mentor-histories", ctrl.MentorHistories)
	g.Get("/:id/mentee-histories", ctrl.MenteeHistories)
}

// Base: /api/mentor/groups
func GroupMentorRoutes(api fiber.Router, db *gorm.DB, mw ...fiber.Handler) {
	ctrl := groupController.NewMentorGroupController(db)

	g := api.Group("/mentor/groups", mw...)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/:id/mentees/existing", ctrl.AddExistingMentees)
	g.Post("/:id/mentees/move", ctrl.MoveMentees)
}
