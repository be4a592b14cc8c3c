package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportController "jejakliqo_backend/internals/features/liqo/reports/controller"
	"jejakliqo_backend/internals/helpers/cache"
)

// Base: /api/dashboard, /api/reports
func ReportAdminRoutes(api fiber.Router, db *gorm.DB, c cache.Cache, mw ...fiber.Handler) {
	ctrl := reportController.NewReportController(db, c)

	api.Group("/dashboard", mw...).Get("/stats", ctrl.DashboardStats)

	r := api.Group("/reports", mw...)
	r.Get("/monthly", ctrl.Monthly)
	r.Get("/monthly/export", ctrl.MonthlyExport)
}

// Base: /api/mentor/dashboard
func ReportMentorRoutes(api fiber.Router, db *gorm.DB, mw ...fiber.Handler) {
	ctrl := reportController.NewReportController(db, nil)

	api.Group("/mentor/dashboard", mw...).Get("/", ctrl.MentorDashboard)
}
