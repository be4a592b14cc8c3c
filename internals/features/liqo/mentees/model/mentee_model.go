package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenteeModel: GroupID nil = belum punya kelompok (pool unassigned).
type MenteeModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FullName      string         `gorm:"size:150;not null" json:"full_name"`
	Nickname      string         `gorm:"size:50" json:"nickname"`
	Gender        string         `gorm:"size:10;not null" json:"gender"`
	BirthDate     *time.Time     `gorm:"type:date" json:"birth_date,omitempty"`
	PhoneNumber   string         `gorm:"size:20" json:"phone_number"`
	ActivityClass string         `gorm:"size:100" json:"activity_class"`
	Hobby         string         `gorm:"size:100" json:"hobby"`
	Address       string         `gorm:"type:text" json:"address"`
	Status        string         `gorm:"size:20;not null;default:'Aktif';index" json:"status"`
	GroupID       *uuid.UUID     `gorm:"type:uuid;index" json:"group_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MenteeModel) TableName() string {
	return "mentees"
}

func (m *MenteeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
