package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	groupDto "jejakliqo_backend/internals/features/liqo/groups/dto"
	userDto "jejakliqo_backend/internals/features/users/user/dto"
)

type AttendanceRequest struct {
	MenteeID string `json:"mentee_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required"`
	Notes    string `json:"notes"`
}

// MeetingRequest dipakai create & update (update = ganti semua kehadiran).
type MeetingRequest struct {
	GroupID     string              `json:"group_id" validate:"required,uuid"`
	Topic       string              `json:"topic" validate:"required,min=2,max=255"`
	MeetingDate string              `json:"meeting_date" validate:"required"`
	MeetingType string              `json:"meeting_type" validate:"required,oneof=Online Offline Assignment"`
	Place       string              `json:"place" validate:"omitempty,max=255"`
	Notes       string              `json:"notes"`
	Attendances []AttendanceRequest `json:"attendances" validate:"omitempty,dive"`
}

func (r *MeetingRequest) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Place = strings.TrimSpace(r.Place)
	r.MeetingDate = strings.TrimSpace(r.MeetingDate)
}

type AttendanceResponse struct {
	MenteeID   uuid.UUID `json:"mentee_id"`
	MenteeName string    `json:"mentee_name"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
}

type MeetingResponse struct {
	ID          uuid.UUID          `json:"id"`
	GroupID     uuid.UUID          `json:"group_id"`
	Group       *groupDto.GroupRef `json:"group"`
	MentorID    *uuid.UUID         `json:"mentor_id"`
	Mentor      *userDto.UserBrief `json:"mentor"`
	Topic       string             `json:"topic"`
	MeetingDate time.Time          `json:"meeting_date"`
	MeetingType string             `json:"meeting_type"`
	Place       string             `json:"place"`
	Notes       string             `json:"notes"`
	Photos      []string           `json:"photos"`
	// jumlah per status (label sesuai panel)
	AttendanceSummary map[string]int       `json:"attendance_summary"`
	Attendances       []AttendanceResponse `json:"attendances,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	DeletedAt         *time.Time           `json:"deleted_at"`
}
