package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "jejakliqo_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// ProfileFields dipakai bersama oleh create/update user dan update profile sendiri.
type ProfileFields struct {
	FullName    string `json:"full_name" form:"full_name" validate:"required,min=2,max=150"`
	Nickname    string `json:"nickname" form:"nickname" validate:"omitempty,max=50"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,oneof=Ikhwan Akhwat"`
	BirthDate   string `json:"birth_date" form:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"omitempty,max=20"`
	Address     string `json:"address" form:"address"`
	Job         string `json:"job" form:"job" validate:"omitempty,max=100"`
	Hobby       string `json:"hobby" form:"hobby" validate:"omitempty,max=100"`
	Status      string `json:"status" form:"status" validate:"omitempty,oneof=Aktif Non-Aktif Cuti Pindah Lainnya"`
	StatusNote  string `json:"status_note" form:"status_note"`
}

func (p *ProfileFields) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	if p.Status == "" {
		p.Status = "Aktif"
	}
}

// CreateUserRequest — admin membuat admin/mentor baru (role ditentukan oleh endpoint)
type CreateUserRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	ProfileFields
}

func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ProfileFields.Normalize()
}

// UpdateUserRequest — password opsional (kosong = tidak diganti)
type UpdateUserRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"omitempty,min=8"`
	ProfileFields
}

func (r *UpdateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ProfileFields.Normalize()
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// UserBrief: ringkasan user untuk relasi (mentor kelompok, pelaku riwayat).
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name"`
	Nickname string    `json:"nickname"`
}

type UserResponse struct {
	ID        uuid.UUID            `json:"id"`
	Role      string               `json:"role"`
	Email     string               `json:"email"`
	BlockedAt *time.Time           `json:"blocked_at"`
	IsBlocked bool                 `json:"is_blocked"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	DeletedAt *time.Time           `json:"deleted_at"`
	Profile   *uModel.ProfileModel `json:"profile"`

	// hanya untuk mentor
	GroupsCount *int64 `json:"groups_count,omitempty"`
}

func ToUserResponse(u *uModel.UserModel, pictureURL func(string) string) UserResponse {
	out := UserResponse{
		ID:        u.ID,
		Role:      u.Role,
		Email:     u.Email,
		BlockedAt: u.BlockedAt,
		IsBlocked: u.IsBlocked(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Profile:   u.Profile,
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		out.DeletedAt = &t
	}
	if out.Profile != nil && out.Profile.ProfilePicture != "" && pictureURL != nil {
		p := *out.Profile
		p.ProfilePicture = pictureURL(p.ProfilePicture)
		out.Profile = &p
	}
	return out
}
