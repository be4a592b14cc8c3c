package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"jejakliqo_backend/internals/features/liqo/announcements/model"
	userDto "jejakliqo_backend/internals/features/users/user/dto"
	"jejakliqo_backend/internals/helpers/dbtime"
)

// AnnouncementRequest dikirim sebagai multipart (file opsional di field "file") atau JSON.
type AnnouncementRequest struct {
	Title      string `json:"title" form:"title" validate:"required,min=3,max=255"`
	Content    string `json:"content" form:"content" validate:"required"`
	EventDate  string `json:"event_date" form:"event_date" validate:"omitempty"`
	IsArchived bool   `json:"is_archived" form:"is_archived"`
	// update: true = lampiran lama dilepas tanpa pengganti
	RemoveFile bool `json:"remove_file" form:"remove_file"`
}

func (r *AnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.EventDate = strings.TrimSpace(r.EventDate)
}

type AnnouncementResponse struct {
	ID         uuid.UUID          `json:"id"`
	Title      string             `json:"title"`
	Content    string             `json:"content"`
	FileURL    string             `json:"file_url,omitempty"`
	FileType   string             `json:"file_type,omitempty"`
	EventDate  string             `json:"event_date,omitempty"`
	IsArchived bool               `json:"is_archived"`
	CreatedBy  uuid.UUID          `json:"created_by"`
	Creator    *userDto.UserBrief `json:"creator"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func ToAnnouncementResponse(a *model.AnnouncementModel, creator *userDto.UserBrief, fileURL func(string) string) AnnouncementResponse {
	out := AnnouncementResponse{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		EventDate:  dbtime.FormatDate(a.EventDate),
		IsArchived: a.IsArchived,
		CreatedBy:  a.CreatedBy,
		Creator:    creator,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.FilePath != nil && *a.FilePath != "" && fileURL != nil {
		out.FileURL = fileURL(*a.FilePath)
	}
	if a.FileType != nil {
		out.FileType = *a.FileType
	}
	return out
}
