package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/metrics"
)

/*
Group Membership & History Tracker.

Setiap perubahan mentees.group_id disertai tepat satu baris
mentee_group_histories di transaksi yang sama, sehingga group_id
selalu sama dengan to_group_id baris riwayat terakhir mentee tsb.
Pengecualian: RestoreGroup (lihat komentar di fungsinya).

Fungsi *InTx dipakai operasi gabungan (create group, delete user, ...)
yang sudah membuka transaksi sendiri.
*/

// AssignMenteesToGroup memindahkan mentee ke kelompok target (semua atau tidak sama sekali).
// ID mentee yang tidak ada diabaikan. Mengembalikan jumlah mentee yang dipindah.
func AssignMenteesToGroup(ctx context.Context, db *gorm.DB, menteeIDs []uuid.UUID, targetGroupID, actorID uuid.UUID) (int, error) {
	var moved int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := AssignMenteesToGroupInTx(tx, menteeIDs, targetGroupID, actorID)
		moved = n
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	log.Printf("[SUCCESS] %d mentee dipindah ke kelompok %s oleh %s", moved, targetGroupID, actorID)
	return moved, nil
}

func AssignMenteesToGroupInTx(tx *gorm.DB, menteeIDs []uuid.UUID, targetGroupID, actorID uuid.UUID) (int, error) {
	if len(menteeIDs) == 0 {
		return 0, nil
	}
	if _, err := findActiveGroup(tx, targetGroupID); err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return 0, ErrTargetGroupMissing
		}
		return 0, err
	}

	var mentees []menteeModel.MenteeModel
	if err := tx.Select("id", "group_id").Where("id IN ?", menteeIDs).Find(&mentees).Error; err != nil {
		return 0, err
	}

	target := targetGroupID
	for _, m := range mentees {
		if err := moveMentee(tx, m.ID, m.GroupID, &target, actorID); err != nil {
			return 0, err
		}
	}
	return len(mentees), nil
}

// ReleaseMenteesInTx melepas mentee tertentu dari kelompoknya (group_id → NULL).
// Mentee yang memang belum punya kelompok dilewati.
func ReleaseMenteesInTx(tx *gorm.DB, menteeIDs []uuid.UUID, actorID uuid.UUID) (int, error) {
	if len(menteeIDs) == 0 {
		return 0, nil
	}
	var mentees []menteeModel.MenteeModel
	if err := tx.Unscoped().Select("id", "group_id").
		Where("id IN ? AND group_id IS NOT NULL", menteeIDs).
		Find(&mentees).Error; err != nil {
		return 0, err
	}
	for _, m := range mentees {
		if err := moveMenteeUnscoped(tx, m.ID, m.GroupID, actorID); err != nil {
			return 0, err
		}
	}
	return len(mentees), nil
}

// UnassignGroup melepas semua mentee dari kelompok lalu soft delete kelompok.
func UnassignGroup(ctx context.Context, db *gorm.DB, groupID, actorID uuid.UUID) (int, error) {
	var released int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := UnassignGroupInTx(tx, groupID, actorID)
		released = n
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, released)
	log.Printf("[SUCCESS] Kelompok %s dihapus, %d mentee dilepas oleh %s", groupID, released, actorID)
	return released, nil
}

func UnassignGroupInTx(tx *gorm.DB, groupID, actorID uuid.UUID) (int, error) {
	group, err := findActiveGroup(tx, groupID)
	if err != nil {
		return 0, err
	}

	// himpunan mentee dihitung sekali sebelum mutasi apa pun
	var ids []uuid.UUID
	if err := tx.Model(&menteeModel.MenteeModel{}).Where("group_id = ?", groupID).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	from := groupID
	for _, id := range ids {
		if err := moveMentee(tx, id, &from, nil, actorID); err != nil {
			return 0, err
		}
	}

	if err := tx.Delete(group).Error; err != nil {
		return 0, err
	}
	return len(ids), nil
}

// RestoreGroup mengembalikan kelompok yang di-soft delete lalu menempelkan
// kembali mentee yang group_id-nya NULL dan punya baris riwayat
// {to_group_id: groupID, from_group_id: NULL}.
//
// Predikat ini mencocokkan mentee yang pernah masuk ke kelompok ini dari
// pool unassigned, bukan mentee yang dilepas saat kelompok dihapus
// ({from_group_id: groupID, to_group_id: NULL}). Penempelan ulang juga tidak
// menulis baris riwayat. Perilaku ini dipertahankan apa adanya; lihat DESIGN.md.
func RestoreGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID) (*groupModel.GroupModel, int, error) {
	var (
		group    groupModel.GroupModel
		attached int64
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("id = ?", groupID).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		if !group.DeletedAt.Valid {
			return ErrGroupNotTrashed
		}
		if err := tx.Unscoped().Model(&group).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		group.DeletedAt = gorm.DeletedAt{}

		res := tx.Model(&menteeModel.MenteeModel{}).
			Where("group_id IS NULL").
			Where(`EXISTS (SELECT 1 FROM mentee_group_histories h
				WHERE h.mentee_id = mentees.id AND h.to_group_id = ? AND h.from_group_id IS NULL)`, groupID).
			Update("group_id", groupID)
		if res.Error != nil {
			return res.Error
		}
		attached = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	log.Printf("[SUCCESS] Kelompok %s dipulihkan, %d mentee ditempel ulang", groupID, attached)
	return &group, int(attached), nil
}

// ChangeGroupMentor mengganti mentor dan mencatat riwayat. Tidak ada
// perubahan (dan tidak ada baris riwayat) kalau mentor sama.
func ChangeGroupMentor(ctx context.Context, db *gorm.DB, groupID uuid.UUID, newMentorID *uuid.UUID, actorID uuid.UUID) (bool, error) {
	var changed bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := findActiveGroup(tx, groupID)
		if err != nil {
			return err
		}
		changed, err = ChangeGroupMentorInTx(tx, group, newMentorID, actorID)
		return err
	})
	if err != nil {
		return false, err
	}
	if changed {
		metrics.ObserveHistoryRows(metrics.HistoryGroupMentor, 1)
	}
	return changed, nil
}

// ChangeGroupMentorInTx memperbarui group.MentorID di tempat.
func ChangeGroupMentorInTx(tx *gorm.DB, group *groupModel.GroupModel, newMentorID *uuid.UUID, actorID uuid.UUID) (bool, error) {
	if helper.UUIDPtrEqual(group.MentorID, newMentorID) {
		return false, nil
	}
	if newMentorID != nil {
		if err := ensureMentor(tx, *newMentorID); err != nil {
			return false, err
		}
	}

	if err := tx.Unscoped().Model(&groupModel.GroupModel{}).Where("id = ?", group.ID).
		Update("mentor_id", newMentorID).Error; err != nil {
		return false, err
	}
	if err := tx.Create(&groupModel.GroupMentorHistoryModel{
		GroupID:      group.ID,
		FromMentorID: group.MentorID,
		ToMentorID:   newMentorID,
		ChangedBy:    actorID,
	}).Error; err != nil {
		return false, err
	}
	group.MentorID = newMentorID
	return true, nil
}

// moveMentee = satu sub-operasi tracker: update group_id + satu baris riwayat.
func moveMentee(tx *gorm.DB, menteeID uuid.UUID, from, to *uuid.UUID, actorID uuid.UUID) error {
	if err := tx.Model(&menteeModel.MenteeModel{}).Where("id = ?", menteeID).
		Update("group_id", to).Error; err != nil {
		return err
	}
	return tx.Create(&groupModel.MenteeGroupHistoryModel{
		MenteeID:    menteeID,
		FromGroupID: from,
		ToGroupID:   to,
		MovedBy:     actorID,
	}).Error
}

func findActiveGroup(tx *gorm.DB, groupID uuid.UUID) (*groupModel.GroupModel, error) {
	var g groupModel.GroupModel
	if err := tx.Where("id = ?", groupID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}
