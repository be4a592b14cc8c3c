package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	announcementRoute "jejakliqo_backend/internals/features/liqo/announcements/route"
	groupRoute "jejakliqo_backend/internals/features/liqo/groups/route"
	meetingRoute "jejakliqo_backend/internals/features/liqo/meetings/route"
	menteeRoute "jejakliqo_backend/internals/features/liqo/mentees/route"
	reportRoute "jejakliqo_backend/internals/features/liqo/reports/route"
	authRoute "jejakliqo_backend/internals/features/users/auth/route"
	userRoute "jejakliqo_backend/internals/features/users/user/route"
	"jejakliqo_backend/internals/helpers/cache"
	"jejakliqo_backend/internals/helpers/metrics"
	"jejakliqo_backend/internals/helpers/storage"
	authMiddleware "jejakliqo_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps: infrastruktur bersama yang dibuat di main.
type Deps struct {
	Store storage.Store
	Cache cache.Cache
	// StaticRoot diisi bila STORAGE_DRIVER=fs (file disajikan di /storage)
	StaticRoot string
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app, db)
	app.Get("/metrics", metrics.Handler())
	if deps.StaticRoot != "" {
		app.Static("/storage", deps.StaticRoot, fiber.Static{MaxAge: 3600})
	}

	api := app.Group("/api")

	// ===================== AUTH / USER =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db)

	log.Println("[INFO] Setting up UserRoutes...")
	userRoute.UserRoutes(api, db, deps.Store)

	requireAuth := authMiddleware.AuthMiddleware(db)
	adminOnly := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("fitur ini"), constants.AdminAndAbove...)
	mentorOnly := authMiddleware.OnlyRoles(constants.RoleErrorMentor("fitur ini"), constants.MentorOnly...)

	// ===================== ADMIN AREA =====================
	log.Println("[INFO] Mounting admin routes...")
	groupRoute.GroupAdminRoutes(api, db, deps.Store, requireAuth, adminOnly)
	menteeRoute.MenteeAdminRoutes(api, db, requireAuth, adminOnly)
	meetingRoute.MeetingAdminRoutes(api, db, deps.Store, requireAuth, adminOnly)
	reportRoute.ReportAdminRoutes(api, db, deps.Cache, requireAuth, adminOnly)

	// ===================== MENTOR AREA =====================
	log.Println("[INFO] Mounting mentor routes...")
	groupRoute.GroupMentorRoutes(api, db, requireAuth, mentorOnly)
	menteeRoute.MenteeMentorRoutes(api, db, requireAuth, mentorOnly)
	meetingRoute.MeetingMentorRoutes(api, db, deps.Store, requireAuth, mentorOnly)
	reportRoute.ReportMentorRoutes(api, db, requireAuth, mentorOnly)

	// ===================== SHARED (semua role) =====================
	announcementRoute.AnnouncementRoutes(api, db, deps.Store, requireAuth, adminOnly)
}
