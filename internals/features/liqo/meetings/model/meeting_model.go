package model

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MeetingModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"group_id"`
	MentorID    *uuid.UUID     `gorm:"type:uuid;index" json:"mentor_id"`
	Topic       string         `gorm:"size:255;not null" json:"topic"`
	MeetingDate time.Time      `gorm:"not null;index" json:"meeting_date"`
	MeetingType string         `gorm:"size:20;not null" json:"meeting_type"`
	Place       string         `gorm:"size:255" json:"place"`
	Notes       string         `gorm:"type:text" json:"notes"`
	Photos      datatypes.JSON `json:"photos"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Attendances []AttendanceModel `gorm:"foreignKey:MeetingID;references:ID" json:"attendances,omitempty"`
}

func (MeetingModel) TableName() string {
	return "meetings"
}

func (m *MeetingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type AttendanceModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	MeetingID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_meeting_mentee" json:"meeting_id"`
	MenteeID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_meeting_mentee;index" json:"mentee_id"`
	Status    AttendanceStatus `gorm:"size:20;not null" json:"status"`
	Notes     string           `gorm:"type:text" json:"notes"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceModel) TableName() string {
	return "attendances"
}

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// PhotoKeys membaca kolom photos (JSON array of object key).
func (m MeetingModel) PhotoKeys() []string {
	if len(m.Photos) == 0 {
		return nil
	}
	var keys []string
	if err := sonic.Unmarshal(m.Photos, &keys); err != nil {
		return nil
	}
	return keys
}

func (m *MeetingModel) SetPhotoKeys(keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	raw, err := sonic.Marshal(keys)
	if err != nil {
		return err
	}
	m.Photos = datatypes.JSON(raw)
	return nil
}
