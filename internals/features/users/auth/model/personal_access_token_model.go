package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonalAccessTokenModel menyimpan sesi aktif. ID = klaim "jti" di JWT.
// Satu user hanya punya satu baris (login baru menghapus yang lama).
type PersonalAccessTokenModel struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TokenHash  string     `gorm:"column:token_hash;size:64;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"column:expires_at;not null;index" json:"expires_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PersonalAccessTokenModel) TableName() string {
	return "personal_access_tokens"
}
