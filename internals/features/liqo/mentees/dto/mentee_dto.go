package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	groupDto "jejakliqo_backend/internals/features/liqo/groups/dto"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	helper "jejakliqo_backend/internals/helpers"
)

type MenteeFields struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=150"`
	Nickname      string `json:"nickname" validate:"omitempty,max=50"`
	Gender        string `json:"gender" validate:"required,oneof=Ikhwan Akhwat"`
	BirthDate     string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,max=20"`
	ActivityClass string `json:"activity_class" validate:"omitempty,max=100"`
	Hobby         string `json:"hobby" validate:"omitempty,max=100"`
	Address       string `json:"address"`
	Status        string `json:"status" validate:"omitempty,oneof=Aktif Non-Aktif Lulus"`
}

func (f *MenteeFields) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	f.ActivityClass = strings.TrimSpace(f.ActivityClass)
	if f.Status == "" {
		f.Status = "Aktif"
	}
}

type CreateMenteeRequest struct {
	MenteeFields
	GroupID *string `json:"group_id" validate:"omitempty,uuid"`
}

// UpdateMenteeRequest: group_id tidak dikirim = tetap, null = lepas dari kelompok.
type UpdateMenteeRequest struct {
	MenteeFields
	GroupID helper.OptionalUUID `json:"group_id"`
}

type MenteeResponse struct {
	ID            uuid.UUID          `json:"id"`
	FullName      string             `json:"full_name"`
	Nickname      string             `json:"nickname"`
	Gender        string             `json:"gender"`
	BirthDate     *string            `json:"birth_date"`
	PhoneNumber   string             `json:"phone_number"`
	ActivityClass string             `json:"activity_class"`
	Hobby         string             `json:"hobby"`
	Address       string             `json:"address"`
	Status        string             `json:"status"`
	GroupID       *uuid.UUID         `json:"group_id"`
	Group         *groupDto.GroupRef `json:"group"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     *time.Time         `json:"deleted_at"`
}

func ToMenteeResponse(m *menteeModel.MenteeModel, group *groupDto.GroupRef) MenteeResponse {
	out := MenteeResponse{
		ID:            m.ID,
		FullName:      m.FullName,
		Nickname:      m.Nickname,
		Gender:        m.Gender,
		PhoneNumber:   m.PhoneNumber,
		ActivityClass: m.ActivityClass,
		Hobby:         m.Hobby,
		Address:       m.Address,
		Status:        m.Status,
		GroupID:       m.GroupID,
		Group:         group,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.BirthDate != nil {
		s := m.BirthDate.UTC().Format("2006-01-02")
		out.BirthDate = &s
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		out.DeletedAt = &t
	}
	return out
}

// MenteeStats: GET /api/mentees/stats
type MenteeStats struct {
	Total      int64            `json:"total"`
	Assigned   int64            `json:"assigned"`
	Unassigned int64            `json:"unassigned"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByGender   map[string]int64 `json:"by_gender"`
}
