package controller

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	"jejakliqo_backend/internals/features/liqo/reports/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/cache"
	"jejakliqo_backend/internals/helpers/dbtime"
)

type ReportController struct {
	DB    *gorm.DB
	Cache cache.Cache
}

func NewReportController(db *gorm.DB, c cache.Cache) *ReportController {
	return &ReportController{DB: db, Cache: c}
}

// GET /api/dashboard/stats
func (rc *ReportController) DashboardStats(c *fiber.Ctx) error {
	stats, err := service.CachedDashboardStats(c.UserContext(), rc.DB, rc.Cache, dbtime.AppLocation())
	if err != nil {
		log.Printf("[ERROR] Statistik dashboard gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Statistik dashboard berhasil diambil", stats)
}

// monthly membaca ?year=&month=&group_id= (default bulan berjalan).
// handled=true berarti response error sudah ditulis.
func (rc *ReportController) monthly(c *fiber.Ctx) (int, int, service.ReportScope, bool, error) {
	now := dbtime.NowInApp()
	year, month := now.Year(), int(now.Month())
	for field, dst := range map[string]*int{"year": &year, "month": &month} {
		v := c.Query(field)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, service.ReportScope{}, true, helper.FieldError(c, field, field+" harus berupa angka")
		}
		*dst = n
	}
	groupID, err := helper.ParseUUIDPtr(c.Query("group_id"))
	if err != nil {
		return 0, 0, service.ReportScope{}, true, helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	return year, month, service.ReportScope{GroupID: groupID}, false, nil
}

// GET /api/reports/monthly?year=&month=&group_id=
func (rc *ReportController) Monthly(c *fiber.Ctx) error {
	year, month, scope, handled, herr := rc.monthly(c)
	if handled {
		return herr
	}
	report, err := service.MonthlyReport(c.UserContext(), rc.DB, year, month, scope, meetingModel.AdminCodec, dbtime.AppLocation())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Laporan bulanan berhasil diambil", report)
}

// GET /api/reports/monthly/export
func (rc *ReportController) MonthlyExport(c *fiber.Ctx) error {
	year, month, scope, handled, herr := rc.monthly(c)
	if handled {
		return herr
	}
	report, err := service.MonthlyReport(c.UserContext(), rc.DB, year, month, scope, meetingModel.AdminCodec, dbtime.AppLocation())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="laporan-%04d-%02d.csv"`, year, month))
	if err := service.ExportMonthlyCSV(c.Response().BodyWriter(), report, meetingModel.AdminCodec); err != nil {
		log.Printf("[ERROR] Export laporan gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return nil
}

// GET /api/mentor/dashboard
func (rc *ReportController) MentorDashboard(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	owned, err := groupService.OwnedGroupIDs(c.UserContext(), rc.DB, mentorID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	out, err := service.MentorDashboard(c.UserContext(), rc.DB, owned, dbtime.NowInApp(), dbtime.AppLocation())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Dashboard mentor berhasil diambil", out)
}
