package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/users/user/dto"
)

// LoadBriefs mengambil ringkasan user (termasuk yang sudah di-soft delete,
// agar riwayat tetap bisa menampilkan nama).
func LoadBriefs(db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]dto.UserBrief, error) {
	out := make(map[uuid.UUID]dto.UserBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []dto.UserBrief
	err := db.Table("users").
		Select("users.id, users.email, users.role, profiles.full_name, profiles.nickname").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where("users.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}

// BriefPtr untuk field opsional (mentor_id nullable).
func BriefPtr(m map[uuid.UUID]dto.UserBrief, id *uuid.UUID) *dto.UserBrief {
	if id == nil {
		return nil
	}
	if b, ok := m[*id]; ok {
		return &b
	}
	return nil
}
