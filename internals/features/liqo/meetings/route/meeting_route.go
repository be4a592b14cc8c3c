package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	meetingController "jejakliqo_backend/internals/features/liqo/meetings/controller"
	"jejakliqo_backend/internals/helpers/storage"
)

// Base: /api/meetings
func MeetingAdminRoutes(api fiber.Router, db *gorm.DB, store storage.Store, mw ...fiber.Handler) {
	ctrl := meetingController.NewMeetingController(db, store)

	g := api.Group("/meetings", mw...)
	g.Get("/", ctrl.List)
	g.Get("/trashed", ctrl.Trashed)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/restore", ctrl.Restore)
	g.Delete("/:id/force", ctrl.ForceDelete)
	g.Post("/:id/photos", ctrl.AddPhotos)
	g.Delete("/:id/photos", ctrl.RemovePhoto)
}

// Base: /api/mentor/meetings
func MeetingMentorRoutes(api fiber.Router, db *gorm.DB, store storage.Store, mw ...fiber.Handler) {
	ctrl := meetingController.NewMentorMeetingController(db, store)

	g := api.Group("/mentor/meetings", mw...)
	g.Get("/", ctrl.List)
	g.Get("/:id", ctrl.Detail)
	g.Post("/", ctrl.Create)
	g.Put("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/photos", ctrl.AddPhotos)
	g.Delete("/:id/photos", ctrl.RemovePhoto)
}
