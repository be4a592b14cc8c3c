package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Role      string         `gorm:"type:varchar(20);not null;index" json:"role"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	BlockedAt *time.Time     `json:"blocked_at,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Profile *ProfileModel `gorm:"foreignKey:UserID;references:ID" json:"profile,omitempty"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) IsBlocked() bool {
	return u.BlockedAt != nil
}
