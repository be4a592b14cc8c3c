package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementController "jejakliqo_backend/internals/features/liqo/announcements/controller"
	"jejakliqo_backend/internals/helpers/storage"
)

// Base: /api/announcements
// read dibuka untuk semua user yang login; write hanya lewat adminOnly.
func AnnouncementRoutes(api fiber.Router, db *gorm.DB, store storage.Store, requireAuth, adminOnly fiber.Handler) {
	ctrl := announcementController.NewAnnouncementController(db, store)

	g := api.Group("/announcements", requireAuth)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", adminOnly, ctrl.Create)
	g.Put("/:id", adminOnly, ctrl.Update)
	g.Delete("/:id", adminOnly, ctrl.Delete)
	g.Patch("/:id/archive", adminOnly, ctrl.Archive)
	g.Patch("/:id/unarchive", adminOnly, ctrl.Unarchive)
}
