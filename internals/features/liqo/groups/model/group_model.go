package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupModel = kelompok liqo yang dipegang satu mentor.
type GroupModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GroupName   string         `gorm:"size:150;not null" json:"group_name"`
	Description string         `gorm:"type:text" json:"description"`
	MentorID    *uuid.UUID     `gorm:"type:uuid;index" json:"mentor_id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// "groups" adalah keyword SQL, jadi pakai prefix.
func (GroupModel) TableName() string {
	return "liqo_groups"
}

func (g *GroupModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
