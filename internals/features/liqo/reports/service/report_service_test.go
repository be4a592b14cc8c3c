package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	userModel "jejakliqo_backend/internals/features/users/user/model"
	"jejakliqo_backend/internals/helpers/cache"
)

type data struct {
	db     *gorm.DB
	mentor uuid.UUID
	alFath uuid.UUID
	anNur  uuid.UUID
}

func seed(t *testing.T) data {
	t.Helper()
	db := testdb.New(t)
	d := data{db: db}

	u := userModel.UserModel{Role: constants.RoleMentor, Email: "mentor@liqo.id", Password: "x"}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&userModel.ProfileModel{UserID: u.ID, FullName: "Ustadz Hasan"}).Error)
	d.mentor = u.ID

	g1 := groupModel.GroupModel{GroupName: "Al-Fath", MentorID: &d.mentor}
	g2 := groupModel.GroupModel{GroupName: "An-Nur"}
	require.NoError(t, db.Create(&g1).Error)
	require.NoError(t, db.Create(&g2).Error)
	d.alFath, d.anNur = g1.ID, g2.ID

	a := menteeModel.MenteeModel{FullName: "Ahmad", Gender: constants.GenderIkhwan, GroupID: &d.alFath}
	b := menteeModel.MenteeModel{FullName: "Umar", Gender: constants.GenderIkhwan, GroupID: &d.alFath}
	c := menteeModel.MenteeModel{FullName: "Bilal", Gender: constants.GenderIkhwan}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&c).Error)

	meeting := func(group uuid.UUID, day time.Time, att map[uuid.UUID]meetingModel.AttendanceStatus) uuid.UUID {
		m := meetingModel.MeetingModel{GroupID: group, Topic: "Kajian", MeetingDate: day, MeetingType: constants.MeetingTypeOffline}
		require.NoError(t, db.Create(&m).Error)
		for mentee, s := range att {
			require.NoError(t, db.Create(&meetingModel.AttendanceModel{MeetingID: m.ID, MenteeID: mentee, Status: s}).Error)
		}
		return m.ID
	}
	march := func(day int) time.Time { return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC) }

	meeting(d.alFath, march(7), map[uuid.UUID]meetingModel.AttendanceStatus{
		a.ID: meetingModel.AttendancePresent, b.ID: meetingModel.AttendanceSick,
	})
	meeting(d.alFath, march(14), map[uuid.UUID]meetingModel.AttendanceStatus{
		a.ID: meetingModel.AttendancePresent, b.ID: meetingModel.AttendancePresent,
	})
	// bulan lain dan pertemuan terhapus tidak dihitung
	meeting(d.alFath, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), map[uuid.UUID]meetingModel.AttendanceStatus{
		a.ID: meetingModel.AttendanceAbsent,
	})
	trashed := meeting(d.alFath, march(21), map[uuid.UUID]meetingModel.AttendanceStatus{
		a.ID: meetingModel.AttendanceAbsent,
	})
	require.NoError(t, db.Delete(&meetingModel.MeetingModel{}, "id = ?", trashed).Error)
	return d
}

func TestMonthlyReport_PerGroupAndTotals(t *testing.T) {
	d := seed(t)

	r, err := MonthlyReport(context.Background(), d.db, 2026, 3, ReportScope{}, meetingModel.AdminCodec, time.UTC)
	require.NoError(t, err)
	require.Len(t, r.Groups, 2)

	fath := r.Groups[0]
	assert.Equal(t, "Al-Fath", fath.GroupName)
	assert.Equal(t, "Ustadz Hasan", fath.MentorName)
	assert.EqualValues(t, 2, fath.Meetings)
	assert.Equal(t, map[string]int64{"Present": 3, "Sick": 1, "Permission": 0, "Absent": 0}, fath.Attendance)
	assert.EqualValues(t, 4, fath.Records)
	assert.Equal(t, 75.0, fath.Rate)

	nur := r.Groups[1]
	assert.Equal(t, "An-Nur", nur.GroupName)
	assert.Zero(t, nur.Meetings)
	assert.Zero(t, nur.Rate)

	assert.EqualValues(t, 2, r.Totals.Meetings)
	assert.EqualValues(t, 4, r.Totals.Records)
	assert.Equal(t, 75.0, r.Totals.Rate)
}

func TestMonthlyReport_ScopeAndPeriod(t *testing.T) {
	d := seed(t)
	ctx := context.Background()

	r, err := MonthlyReport(ctx, d.db, 2026, 3, ReportScope{GroupID: &d.anNur}, meetingModel.MentorCodec, time.UTC)
	require.NoError(t, err)
	require.Len(t, r.Groups, 1)
	assert.Contains(t, r.Groups[0].Attendance, "hadir")

	r, err = MonthlyReport(ctx, d.db, 2026, 3, ReportScope{GroupIDs: []uuid.UUID{}}, meetingModel.AdminCodec, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, r.Groups)

	_, err = MonthlyReport(ctx, d.db, 2026, 13, ReportScope{}, meetingModel.AdminCodec, time.UTC)
	assert.True(t, errors.Is(err, ErrInvalidPeriod))
}

func TestExportMonthlyCSV(t *testing.T) {
	d := seed(t)
	r, err := MonthlyReport(context.Background(), d.db, 2026, 3, ReportScope{}, meetingModel.AdminCodec, time.UTC)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportMonthlyCSV(&buf, r, meetingModel.AdminCodec))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Kelompok", "Mentor", "Pertemuan", "Present", "Sick", "Permission", "Absent", "Total Catatan", "Persentase Hadir"}, records[0])
	assert.Equal(t, []string{"Al-Fath", "Ustadz Hasan", "2", "3", "1", "0", "0", "4", "75.0"}, records[1])
	assert.Equal(t, "Total", records[3][0])
}

func TestDashboardStats_Cached(t *testing.T) {
	d := seed(t)
	ctx := context.Background()
	c := cache.NewMemoryCache()
	loc := time.UTC

	first, err := CachedDashboardStats(ctx, d.db, c, loc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, first.Groups)
	assert.EqualValues(t, 1, first.GroupsWithoutMentor)
	assert.EqualValues(t, 3, first.Mentees)
	assert.EqualValues(t, 1, first.UnassignedMentees)
	assert.EqualValues(t, 1, first.UsersByRole[constants.RoleMentor])

	require.NoError(t, d.db.Create(&groupModel.GroupModel{GroupName: "Baru"}).Error)
	second, err := CachedDashboardStats(ctx, d.db, c, loc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Groups)

	require.NoError(t, c.Delete(ctx, DashboardCacheKey))
	third, err := CachedDashboardStats(ctx, d.db, c, loc)
	require.NoError(t, err)
	assert.EqualValues(t, 3, third.Groups)
}

func TestDashboardStats_MonthFigures(t *testing.T) {
	d := seed(t)
	now := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

	s, err := DashboardStats(context.Background(), d.db, now, time.UTC)
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.MeetingsThisMonth)
	assert.Equal(t, 75.0, s.AttendanceRate)
	assert.EqualValues(t, 3, s.MenteesByStatus[constants.MenteeStatusActive])
}

func TestMentorDashboard(t *testing.T) {
	d := seed(t)
	now := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

	out, err := MentorDashboard(context.Background(), d.db, []uuid.UUID{d.alFath}, now, time.UTC)
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Groups)
	assert.EqualValues(t, 2, out.Mentees)
	assert.EqualValues(t, 2, out.MeetingsThisMonth)
	assert.Equal(t, 75.0, out.AttendanceRate)
	require.Len(t, out.Report.Groups, 1)
	assert.EqualValues(t, 3, out.Report.Groups[0].Attendance["hadir"])

	empty, err := MentorDashboard(context.Background(), d.db, nil, now, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, empty.Mentees)
	assert.Empty(t, empty.Report.Groups)
}
