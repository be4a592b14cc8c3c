package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	FilePath   *string    `gorm:"size:255" json:"file_path,omitempty"`
	FileType   *string    `gorm:"size:20" json:"file_type,omitempty"`
	EventDate  *time.Time `gorm:"index" json:"event_date,omitempty"`
	IsArchived bool       `gorm:"not null;default:false;index" json:"is_archived"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}

func (a *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
