package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	userController "jejakliqo_backend/internals/features/users/user/controller"
	"jejakliqo_backend/internals/helpers/storage"
	authMiddleware "jejakliqo_backend/internals/middlewares/auth"
)

// Base: /api/admins (super_admin), /api/mentors (admin+), /api/profile (semua role)
func UserRoutes(api fiber.Router, db *gorm.DB, store storage.Store) {
	requireAuth := authMiddleware.AuthMiddleware(db)

	adminCtrl := userController.NewUserController(db, store, constants.RoleAdmin, "Admin")
	admins := api.Group("/admins", requireAuth,
		authMiddleware.OnlyRoles(constants.RoleErrorSuperAdmin("kelola admin"), constants.SuperAdminOnly...))
	registerUserCRUD(admins, adminCtrl)

	mentorCtrl := userController.NewUserController(db, store, constants.RoleMentor, "Mentor")
	mentors := api.Group("/mentors", requireAuth,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("kelola mentor"), constants.AdminAndAbove...))
	registerUserCRUD(mentors, mentorCtrl)

	profileCtrl := userController.NewProfileController(db, store)
	profile := api.Group("/profile", requireAuth)
	profile.Get("/", profileCtrl.Get)
	profile.Put("/", profileCtrl.Update)
	profile.Post("/picture", profileCtrl.UploadPicture)
}

func registerUserCRUD(r fiber.Router, ctrl *userController.UserController) {
	r.Get("/", ctrl.List)
	r.Get("/trashed", ctrl.Trashed)
	r.Get("/:id", ctrl.Detail)
	r.Post("/", ctrl.Create)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)
	r.Post("/:id/restore", ctrl.Restore)
	r.Delete("/:id/force", ctrl.ForceDelete)
	r.Post("/:id/block", ctrl.Block)
	r.Post("/:id/unblock", ctrl.Unblock)
}
