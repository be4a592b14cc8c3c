package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	announcementModel "jejakliqo_backend/internals/features/liqo/announcements/model"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	"jejakliqo_backend/internals/features/liqo/reports/dto"
	userModel "jejakliqo_backend/internals/features/users/user/model"
	userRepo "jejakliqo_backend/internals/features/users/user/repository"
	"jejakliqo_backend/internals/helpers/cache"
	"jejakliqo_backend/internals/helpers/dbtime"
)

const (
	DashboardCacheKey = "dashboard:stats"
	DashboardCacheTTL = 60 * time.Second
)

var ErrInvalidPeriod = fiber.NewError(fiber.StatusUnprocessableEntity, "Periode laporan tidak valid")

type labelCount struct {
	Label string
	Total int64
}

// ReportScope: GroupID untuk satu kelompok, GroupIDs (non-nil) membatasi ke kelompok milik mentor.
type ReportScope struct {
	GroupID  *uuid.UUID
	GroupIDs []uuid.UUID
}

func (s ReportScope) apply(q *gorm.DB, col string) *gorm.DB {
	if s.GroupID != nil {
		q = q.Where(col+" = ?", *s.GroupID)
	}
	if s.GroupIDs != nil {
		if len(s.GroupIDs) == 0 {
			return q.Where("1 = 0")
		}
		q = q.Where(col+" IN ?", s.GroupIDs)
	}
	return q
}

// CachedDashboardStats: statistik dashboard admin, di-cache 60 detik.
func CachedDashboardStats(ctx context.Context, db *gorm.DB, c cache.Cache, loc *time.Location) (dto.DashboardStats, error) {
	return cache.Remember(ctx, c, DashboardCacheKey, DashboardCacheTTL, func() (dto.DashboardStats, error) {
		return DashboardStats(ctx, db, time.Now().In(loc), loc)
	})
}

func DashboardStats(ctx context.Context, db *gorm.DB, now time.Time, loc *time.Location) (dto.DashboardStats, error) {
	tx := db.WithContext(ctx)
	out := dto.DashboardStats{
		UsersByRole:     map[string]int64{},
		MenteesByStatus: map[string]int64{},
		GeneratedAt:     now,
	}

	var rows []labelCount
	if err := tx.Model(&userModel.UserModel{}).Select("role AS label, COUNT(*) AS total").Group("role").Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.UsersByRole[r.Label] = r.Total
	}

	if err := tx.Model(&groupModel.GroupModel{}).Count(&out.Groups).Error; err != nil {
		return out, err
	}
	if err := tx.Model(&groupModel.GroupModel{}).Where("mentor_id IS NULL").Count(&out.GroupsWithoutMentor).Error; err != nil {
		return out, err
	}

	if err := tx.Model(&menteeModel.MenteeModel{}).Count(&out.Mentees).Error; err != nil {
		return out, err
	}
	if err := tx.Model(&menteeModel.MenteeModel{}).Where("group_id IS NULL").Count(&out.UnassignedMentees).Error; err != nil {
		return out, err
	}
	rows = nil
	if err := tx.Model(&menteeModel.MenteeModel{}).Select("status AS label, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.MenteesByStatus[r.Label] = r.Total
	}

	start, end := dbtime.MonthRange(now.Year(), now.Month(), loc)
	meetings, att, err := monthCounts(tx, start, end, ReportScope{})
	if err != nil {
		return out, err
	}
	out.MeetingsThisMonth = meetings
	out.AttendanceRate = rate(att[meetingModel.AttendancePresent], sum(att))

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if err := tx.Model(&announcementModel.AnnouncementModel{}).
		Where("is_archived = ? AND event_date >= ?", false, today).
		Count(&out.UpcomingAnnouncements).Error; err != nil {
		return out, err
	}
	return out, nil
}

// monthCounts: total pertemuan + jumlah kehadiran per status dalam [start, end).
func monthCounts(tx *gorm.DB, start, end time.Time, scope ReportScope) (int64, map[meetingModel.AttendanceStatus]int64, error) {
	var meetings int64
	q := tx.Model(&meetingModel.MeetingModel{}).
		Where("meetings.meeting_date >= ? AND meetings.meeting_date < ?", start, end)
	if err := scope.apply(q, "meetings.group_id").Count(&meetings).Error; err != nil {
		return 0, nil, err
	}

	var rows []labelCount
	q = tx.Table("attendances").
		Select("attendances.status AS label, COUNT(*) AS total").
		Joins("JOIN meetings ON meetings.id = attendances.meeting_id").
		Where("meetings.deleted_at IS NULL").
		Where("meetings.meeting_date >= ? AND meetings.meeting_date < ?", start, end)
	if err := scope.apply(q, "meetings.group_id").Group("attendances.status").Scan(&rows).Error; err != nil {
		return 0, nil, err
	}
	out := make(map[meetingModel.AttendanceStatus]int64, len(rows))
	for _, r := range rows {
		out[meetingModel.AttendanceStatus(r.Label)] = r.Total
	}
	return meetings, out, nil
}

// MonthlyReport: satu baris per kelompok aktif (termasuk yang belum ada pertemuan).
func MonthlyReport(ctx context.Context, db *gorm.DB, year, month int, scope ReportScope, codec meetingModel.StatusCodec, loc *time.Location) (dto.MonthlyReport, error) {
	out := dto.MonthlyReport{Year: year, Month: month, Groups: []dto.GroupReport{}}
	if year < 2000 || year > 9999 || month < 1 || month > 12 {
		return out, ErrInvalidPeriod
	}
	tx := db.WithContext(ctx)
	start, end := dbtime.MonthRange(year, time.Month(month), loc)

	var groups []groupModel.GroupModel
	if err := scope.apply(tx.Model(&groupModel.GroupModel{}), "id").Order("group_name ASC").Find(&groups).Error; err != nil {
		return out, err
	}
	mentorIDs := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		if g.MentorID != nil {
			mentorIDs = append(mentorIDs, *g.MentorID)
		}
	}
	mentors, err := userRepo.LoadBriefs(tx, mentorIDs)
	if err != nil {
		return out, err
	}

	var meetingRows []struct {
		GroupID uuid.UUID
		Total   int64
	}
	q := tx.Model(&meetingModel.MeetingModel{}).
		Select("group_id, COUNT(*) AS total").
		Where("meeting_date >= ? AND meeting_date < ?", start, end)
	if err := scope.apply(q, "group_id").Group("group_id").Scan(&meetingRows).Error; err != nil {
		return out, err
	}
	meetingsByGroup := make(map[uuid.UUID]int64, len(meetingRows))
	for _, r := range meetingRows {
		meetingsByGroup[r.GroupID] = r.Total
	}

	var attRows []struct {
		GroupID uuid.UUID
		Status  string
		Total   int64
	}
	q = tx.Table("attendances").
		Select("meetings.group_id AS group_id, attendances.status AS status, COUNT(*) AS total").
		Joins("JOIN meetings ON meetings.id = attendances.meeting_id").
		Where("meetings.deleted_at IS NULL").
		Where("meetings.meeting_date >= ? AND meetings.meeting_date < ?", start, end)
	if err := scope.apply(q, "meetings.group_id").Group("meetings.group_id, attendances.status").Scan(&attRows).Error; err != nil {
		return out, err
	}
	attByGroup := map[uuid.UUID]map[meetingModel.AttendanceStatus]int64{}
	for _, r := range attRows {
		if attByGroup[r.GroupID] == nil {
			attByGroup[r.GroupID] = map[meetingModel.AttendanceStatus]int64{}
		}
		attByGroup[r.GroupID][meetingModel.AttendanceStatus(r.Status)] = r.Total
	}

	totals := map[meetingModel.AttendanceStatus]int64{}
	out.Totals = dto.GroupReport{GroupName: "Total"}
	for _, g := range groups {
		counts := attByGroup[g.ID]
		row := groupRow(counts, codec)
		row.GroupID = g.ID
		row.GroupName = g.GroupName
		row.Meetings = meetingsByGroup[g.ID]
		if b := userRepo.BriefPtr(mentors, g.MentorID); b != nil {
			row.MentorName = b.FullName
		}
		out.Groups = append(out.Groups, row)

		out.Totals.Meetings += row.Meetings
		for s, n := range counts {
			totals[s] += n
		}
	}
	t := groupRow(totals, codec)
	t.GroupName, t.Meetings = out.Totals.GroupName, out.Totals.Meetings
	out.Totals = t
	return out, nil
}

func groupRow(counts map[meetingModel.AttendanceStatus]int64, codec meetingModel.StatusCodec) dto.GroupReport {
	row := dto.GroupReport{Attendance: make(map[string]int64, len(meetingModel.AttendanceStatuses))}
	for _, s := range meetingModel.AttendanceStatuses {
		row.Attendance[codec.Encode(s)] = counts[s]
	}
	row.Records = sum(counts)
	row.Rate = rate(counts[meetingModel.AttendancePresent], row.Records)
	return row
}

// MentorDashboard: ringkasan kelompok milik mentor untuk bulan berjalan.
func MentorDashboard(ctx context.Context, db *gorm.DB, groupIDs []uuid.UUID, now time.Time, loc *time.Location) (dto.MentorDashboard, error) {
	if groupIDs == nil {
		groupIDs = []uuid.UUID{}
	}
	scope := ReportScope{GroupIDs: groupIDs}
	tx := db.WithContext(ctx)
	out := dto.MentorDashboard{Groups: int64(len(groupIDs))}

	if err := scope.apply(tx.Model(&menteeModel.MenteeModel{}), "group_id").Count(&out.Mentees).Error; err != nil {
		return out, err
	}
	report, err := MonthlyReport(ctx, db, now.Year(), int(now.Month()), scope, meetingModel.MentorCodec, loc)
	if err != nil {
		return out, err
	}
	out.Report = report
	out.MeetingsThisMonth = report.Totals.Meetings
	out.AttendanceRate = report.Totals.Rate
	return out, nil
}

// ExportMonthlyCSV: satu baris per kelompok + baris total.
func ExportMonthlyCSV(w io.Writer, r dto.MonthlyReport, codec meetingModel.StatusCodec) error {
	labels := codec.Labels()
	header := append([]string{"Kelompok", "Mentor", "Pertemuan"}, labels...)
	header = append(header, "Total Catatan", "Persentase Hadir")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	write := func(g dto.GroupReport) error {
		rec := []string{g.GroupName, g.MentorName, strconv.FormatInt(g.Meetings, 10)}
		for _, l := range labels {
			rec = append(rec, strconv.FormatInt(g.Attendance[l], 10))
		}
		rec = append(rec, strconv.FormatInt(g.Records, 10), fmt.Sprintf("%.1f", g.Rate))
		return cw.Write(rec)
	}
	for _, g := range r.Groups {
		if err := write(g); err != nil {
			return err
		}
	}
	if err := write(r.Totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func sum(m map[meetingModel.AttendanceStatus]int64) int64 {
	var n int64
	for _, v := range m {
		n += v
	}
	return n
}

// rate dibulatkan 1 desimal; 0 kalau belum ada catatan.
func rate(present, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)*1000/float64(total)) / 10
}
