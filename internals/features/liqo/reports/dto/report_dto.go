package dto

import (
	"time"

	"github.com/google/uuid"
)

type DashboardStats struct {
	UsersByRole         map[string]int64 `json:"users_by_role"`
	Groups              int64            `json:"groups"`
	GroupsWithoutMentor int64            `json:"groups_without_mentor"`
	Mentees             int64            `json:"mentees"`
	MenteesByStatus     map[string]int64 `json:"mentees_by_status"`
	UnassignedMentees   int64            `json:"unassigned_mentees"`
	MeetingsThisMonth   int64            `json:"meetings_this_month"`
	// persentase hadir dari seluruh catatan kehadiran bulan ini (0-100)
	AttendanceRate        float64   `json:"attendance_rate"`
	UpcomingAnnouncements int64     `json:"upcoming_announcements"`
	GeneratedAt           time.Time `json:"generated_at"`
}

type GroupReport struct {
	GroupID    uuid.UUID        `json:"group_id"`
	GroupName  string           `json:"group_name"`
	MentorName string           `json:"mentor_name"`
	Meetings   int64            `json:"meetings"`
	Attendance map[string]int64 `json:"attendance"`
	Records    int64            `json:"records"`
	Rate       float64          `json:"attendance_rate"`
}

type MonthlyReport struct {
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Groups []GroupReport `json:"groups"`
	Totals GroupReport   `json:"totals"`
}

type MentorDashboard struct {
	Groups            int64         `json:"groups"`
	Mentees           int64         `json:"mentees"`
	MeetingsThisMonth int64         `json:"meetings_this_month"`
	AttendanceRate    float64       `json:"attendance_rate"`
	Report            MonthlyReport `json:"report"`
}
