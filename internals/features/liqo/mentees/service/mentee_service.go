package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	"jejakliqo_backend/internals/features/liqo/mentees/dto"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/dbtime"
	"jejakliqo_backend/internals/helpers/metrics"
)

type CreateMenteeInput struct {
	Fields  dto.MenteeFields
	GroupID *uuid.UUID
}

type UpdateMenteeInput struct {
	Fields dto.MenteeFields
	// GroupSet=false → kelompok tidak disentuh
	GroupSet bool
	GroupID  *uuid.UUID
}

// CreateMentee: penempatan awal ke kelompok dicatat di riwayat ({from: NULL, to: group}).
func CreateMentee(ctx context.Context, db *gorm.DB, in CreateMenteeInput, actorID uuid.UUID) (*menteeModel.MenteeModel, error) {
	m, err := modelFromFields(in.Fields)
	if err != nil {
		return nil, err
	}
	var moved int
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if in.GroupID == nil {
			return nil
		}
		moved, err = groupService.AssignMenteesToGroupInTx(tx, []uuid.UUID{m.ID}, *in.GroupID, actorID)
		if err != nil {
			return err
		}
		m.GroupID = in.GroupID
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	log.Printf("[SUCCESS] Mentee %s dibuat oleh %s", m.ID, actorID)
	return &m, nil
}

// UpdateMentee: perpindahan kelompok selalu lewat tracker.
func UpdateMentee(ctx context.Context, db *gorm.DB, menteeID uuid.UUID, in UpdateMenteeInput, actorID uuid.UUID) (*menteeModel.MenteeModel, error) {
	fields, err := modelFromFields(in.Fields)
	if err != nil {
		return nil, err
	}
	var moved int
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findMentee(tx, menteeID, false)
		if err != nil {
			return err
		}
		if err := tx.Model(&menteeModel.MenteeModel{}).Where("id = ?", menteeID).Updates(map[string]interface{}{
			"full_name":      fields.FullName,
			"nickname":       fields.Nickname,
			"gender":         fields.Gender,
			"birth_date":     fields.BirthDate,
			"phone_number":   fields.PhoneNumber,
			"activity_class": fields.ActivityClass,
			"hobby":          fields.Hobby,
			"address":        fields.Address,
			"status":         fields.Status,
		}).Error; err != nil {
			return err
		}
		if !in.GroupSet || helper.UUIDPtrEqual(current.GroupID, in.GroupID) {
			return nil
		}
		if in.GroupID == nil {
			moved, err = groupService.ReleaseMenteesInTx(tx, []uuid.UUID{menteeID}, actorID)
		} else {
			moved, err = groupService.AssignMenteesToGroupInTx(tx, []uuid.UUID{menteeID}, *in.GroupID, actorID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	return FindMentee(ctx, db, menteeID, false)
}

// DeleteMentee: soft delete dan lepas dari kelompok (dengan riwayat).
func DeleteMentee(ctx context.Context, db *gorm.DB, menteeID, actorID uuid.UUID) error {
	var moved int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMentee(tx, menteeID, false)
		if err != nil {
			return err
		}
		if moved, err = groupService.ReleaseMenteesInTx(tx, []uuid.UUID{m.ID}, actorID); err != nil {
			return err
		}
		return tx.Delete(&menteeModel.MenteeModel{}, "id = ?", m.ID).Error
	})
	if err != nil {
		return err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	log.Printf("[SUCCESS] Mentee %s dihapus oleh %s", menteeID, actorID)
	return nil
}

// RestoreMentee: mentee kembali ke pool unassigned.
func RestoreMentee(ctx context.Context, db *gorm.DB, menteeID uuid.UUID) (*menteeModel.MenteeModel, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMentee(tx, menteeID, true)
		if err != nil {
			return err
		}
		if !m.DeletedAt.Valid {
			return ErrMenteeNotTrashed
		}
		return tx.Unscoped().Model(&menteeModel.MenteeModel{}).Where("id = ?", m.ID).Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return FindMentee(ctx, db, menteeID, false)
}

// ForceDeleteMentee menghapus permanen mentee dan kehadirannya. Riwayat kelompok tetap.
func ForceDeleteMentee(ctx context.Context, db *gorm.DB, menteeID, actorID uuid.UUID) error {
	var moved int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMentee(tx, menteeID, true)
		if err != nil {
			return err
		}
		if moved, err = groupService.ReleaseMenteesInTx(tx, []uuid.UUID{m.ID}, actorID); err != nil {
			return err
		}
		if err := tx.Where("mentee_id = ?", m.ID).Delete(&meetingModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&menteeModel.MenteeModel{}, "id = ?", m.ID).Error
	})
	if err != nil {
		return err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	log.Printf("[SUCCESS] Mentee %s dihapus permanen oleh %s", menteeID, actorID)
	return nil
}

func FindMentee(ctx context.Context, db *gorm.DB, menteeID uuid.UUID, withTrashed bool) (*menteeModel.MenteeModel, error) {
	return findMentee(db.WithContext(ctx), menteeID, withTrashed)
}

func findMentee(tx *gorm.DB, menteeID uuid.UUID, withTrashed bool) (*menteeModel.MenteeModel, error) {
	q := tx
	if withTrashed {
		q = q.Unscoped()
	}
	var m menteeModel.MenteeModel
	if err := q.Where("id = ?", menteeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenteeNotFound
		}
		return nil, err
	}
	return &m, nil
}

func modelFromFields(f dto.MenteeFields) (menteeModel.MenteeModel, error) {
	f.Normalize()
	birth, err := dbtime.ParseDatePtr(f.BirthDate, time.UTC)
	if err != nil {
		return menteeModel.MenteeModel{}, ErrInvalidBirthDate
	}
	return menteeModel.MenteeModel{
		FullName:      f.FullName,
		Nickname:      f.Nickname,
		Gender:        f.Gender,
		BirthDate:     birth,
		PhoneNumber:   f.PhoneNumber,
		ActivityClass: f.ActivityClass,
		Hobby:         f.Hobby,
		Address:       f.Address,
		Status:        f.Status,
	}, nil
}
