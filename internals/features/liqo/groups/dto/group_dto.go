package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	userDto "jejakliqo_backend/internals/features/users/user/dto"
	helper "jejakliqo_backend/internals/helpers"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateGroupRequest struct {
	GroupName   string   `json:"group_name" validate:"required,min=2,max=150"`
	Description string   `json:"description"`
	MentorID    *string  `json:"mentor_id" validate:"omitempty,uuid"`
	MenteeIDs   []string `json:"mentee_ids" validate:"omitempty,dive,uuid"`
}

func (r *CreateGroupRequest) Normalize() {
	r.GroupName = strings.TrimSpace(r.GroupName)
	r.Description = strings.TrimSpace(r.Description)
	if r.MentorID != nil && strings.TrimSpace(*r.MentorID) == "" {
		r.MentorID = nil
	}
}

// UpdateGroupRequest: field yang tidak dikirim tidak diubah.
// mentor_id: null = lepas mentor, tidak dikirim = tetap.
type UpdateGroupRequest struct {
	GroupName   *string             `json:"group_name" validate:"omitempty,min=2,max=150"`
	Description *string             `json:"description"`
	MentorID    helper.OptionalUUID `json:"mentor_id"`
	// mentee_ids dikirim = daftar anggota baru (yang tidak disebut dilepas)
	MenteeIDs *[]string `json:"mentee_ids" validate:"omitempty,dive,uuid"`
}

func (r *UpdateGroupRequest) Normalize() {
	if r.GroupName != nil {
		s := strings.TrimSpace(*r.GroupName)
		r.GroupName = &s
	}
	if r.Description != nil {
		s := strings.TrimSpace(*r.Description)
		r.Description = &s
	}
}

// MoveMenteesRequest: POST /api/groups/move-mentees
type MoveMenteesRequest struct {
	MenteeIDs []string `json:"mentee_ids" validate:"required,min=1,dive,uuid"`
	ToGroupID string   `json:"to_group_id" validate:"required,uuid"`
}

// MentorAddMenteesRequest: POST /api/mentor/groups/:id/mentees/existing
type MentorAddMenteesRequest struct {
	MenteeIDs []string `json:"mentee_ids" validate:"required,min=1,dive,uuid"`
}

// MentorMoveMenteesRequest: POST /api/mentor/groups/:id/mentees/move
type MentorMoveMenteesRequest struct {
	MenteeIDs []string `json:"mentee_ids" validate:"required,min=1,dive,uuid"`
	ToGroupID string   `json:"to_group_id" validate:"required,uuid"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type GroupMentee struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Nickname      string    `json:"nickname"`
	Gender        string    `json:"gender"`
	ActivityClass string    `json:"activity_class"`
	Status        string    `json:"status"`
}

type GroupResponse struct {
	ID           uuid.UUID          `json:"id"`
	GroupName    string             `json:"group_name"`
	Description  string             `json:"description"`
	MentorID     *uuid.UUID         `json:"mentor_id"`
	Mentor       *userDto.UserBrief `json:"mentor"`
	MenteesCount int64              `json:"mentees_count"`
	Mentees      []GroupMentee      `json:"mentees,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    *time.Time         `json:"deleted_at"`
}

func ToGroupResponse(g *groupModel.GroupModel, mentor *userDto.UserBrief, menteesCount int64) GroupResponse {
	out := GroupResponse{
		ID:           g.ID,
		GroupName:    g.GroupName,
		Description:  g.Description,
		MentorID:     g.MentorID,
		Mentor:       mentor,
		MenteesCount: menteesCount,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if g.DeletedAt.Valid {
		t := g.DeletedAt.Time
		out.DeletedAt = &t
	}
	return out
}

type MentorHistoryResponse struct {
	ID         uint64             `json:"id"`
	GroupID    uuid.UUID          `json:"group_id"`
	FromMentor *userDto.UserBrief `json:"from_mentor"`
	ToMentor   *userDto.UserBrief `json:"to_mentor"`
	ChangedBy  *userDto.UserBrief `json:"changed_by"`
	CreatedAt  time.Time          `json:"created_at"`
}

type GroupRef struct {
	ID        uuid.UUID `json:"id"`
	GroupName string    `json:"group_name"`
}

type MenteeHistoryResponse struct {
	ID         uint64             `json:"id"`
	MenteeID   uuid.UUID          `json:"mentee_id"`
	MenteeName string             `json:"mentee_name"`
	FromGroup  *GroupRef          `json:"from_group"`
	ToGroup    *GroupRef          `json:"to_group"`
	MovedBy    *userDto.UserBrief `json:"moved_by"`
	CreatedAt  time.Time          `json:"created_at"`
}

// MoveResult dipakai semua endpoint yang memindah mentee.
type MoveResult struct {
	Moved int `json:"moved"`
}
