package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileModel selalu dibuat bersamaan dengan UserModel (satu transaksi).
type ProfileModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName       string     `gorm:"size:150;not null" json:"full_name"`
	Nickname       string     `gorm:"size:50" json:"nickname"`
	Gender         string     `gorm:"size:10" json:"gender"`
	BirthDate      *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	PhoneNumber    string     `gorm:"size:20" json:"phone_number"`
	Address        string     `gorm:"type:text" json:"address"`
	Job            string     `gorm:"size:100" json:"job"`
	Hobby          string     `gorm:"size:100" json:"hobby"`
	Status         string     `gorm:"size:20;default:'Aktif'" json:"status"`
	StatusNote     string     `gorm:"type:text" json:"status_note"`
	ProfilePicture string     `gorm:"size:255" json:"profile_picture"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

func (p *ProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
