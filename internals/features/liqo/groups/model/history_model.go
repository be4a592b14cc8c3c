package model

import (
	"time"

	"github.com/google/uuid"
)

// Tabel riwayat bersifat append-only: tidak pernah di-update atau dihapus.
// ID bigserial dipakai sebagai urutan penulisan.

type GroupMentorHistoryModel struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"group_id"`
	FromMentorID *uuid.UUID `gorm:"type:uuid" json:"from_mentor_id"`
	ToMentorID   *uuid.UUID `gorm:"type:uuid" json:"to_mentor_id"`
	ChangedBy    uuid.UUID  `gorm:"type:uuid;not null" json:"changed_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (GroupMentorHistoryModel) TableName() string {
	return "group_mentor_histories"
}

type MenteeGroupHistoryModel struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MenteeID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"mentee_id"`
	FromGroupID *uuid.UUID `gorm:"type:uuid;index" json:"from_group_id"`
	ToGroupID   *uuid.UUID `gorm:"type:uuid;index" json:"to_group_id"`
	MovedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"moved_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (MenteeGroupHistoryModel) TableName() string {
	return "mentee_group_histories"
}
