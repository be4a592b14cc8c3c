package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	userModel "jejakliqo_backend/internals/features/users/user/model"
	"jejakliqo_backend/internals/helpers/metrics"
)

type CreateGroupInput struct {
	GroupName   string
	Description string
	MentorID    *uuid.UUID
	MenteeIDs   []uuid.UUID
}

type UpdateGroupInput struct {
	GroupName   *string
	Description *string
	// MentorSet=false → mentor tidak disentuh
	MentorSet bool
	MentorID  *uuid.UUID
	// nil → anggota tidak disentuh; non-nil → jadi daftar anggota baru
	MenteeIDs *[]uuid.UUID
}

// CreateGroup membuat kelompok lalu mengisi mentee awal dalam satu transaksi.
// Mentor awal juga dicatat di riwayat mentor (dari NULL).
func CreateGroup(ctx context.Context, db *gorm.DB, in CreateGroupInput, actorID uuid.UUID) (*groupModel.GroupModel, int, error) {
	group := groupModel.GroupModel{
		GroupName:   in.GroupName,
		Description: in.Description,
	}
	var (
		assigned      int
		mentorChanged bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		changed, err := ChangeGroupMentorInTx(tx, &group, in.MentorID, actorID)
		if err != nil {
			return err
		}
		mentorChanged = changed
		assigned, err = AssignMenteesToGroupInTx(tx, in.MenteeIDs, group.ID, actorID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, assigned)
	if mentorChanged {
		metrics.ObserveHistoryRows(metrics.HistoryGroupMentor, 1)
	}
	log.Printf("[SUCCESS] Kelompok %s dibuat dengan %d mentee oleh %s", group.ID, assigned, actorID)
	return &group, assigned, nil
}

// UpdateGroup memperbarui field kelompok; pergantian mentor lewat ChangeGroupMentorInTx.
func UpdateGroup(ctx context.Context, db *gorm.DB, groupID uuid.UUID, in UpdateGroupInput, actorID uuid.UUID) (*groupModel.GroupModel, error) {
	var (
		group         *groupModel.GroupModel
		mentorChanged bool
		moved         int
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := findActiveGroup(tx, groupID)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.GroupName != nil {
			updates["group_name"] = *in.GroupName
			g.GroupName = *in.GroupName
		}
		if in.Description != nil {
			updates["description"] = *in.Description
			g.Description = *in.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(&groupModel.GroupModel{}).Where("id = ?", g.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.MentorSet {
			if mentorChanged, err = ChangeGroupMentorInTx(tx, g, in.MentorID, actorID); err != nil {
				return err
			}
		}
		if in.MenteeIDs != nil {
			if moved, err = syncGroupMenteesInTx(tx, g.ID, *in.MenteeIDs, actorID); err != nil {
				return err
			}
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mentorChanged {
		metrics.ObserveHistoryRows(metrics.HistoryGroupMentor, 1)
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	return group, nil
}

// syncGroupMenteesInTx menyamakan anggota kelompok dengan menteeIDs:
// yang tidak disebut dilepas, yang baru dimasukkan. Semua lewat tracker.
func syncGroupMenteesInTx(tx *gorm.DB, groupID uuid.UUID, menteeIDs []uuid.UUID, actorID uuid.UUID) (int, error) {
	var current []uuid.UUID
	if err := tx.Model(&menteeModel.MenteeModel{}).Where("group_id = ?", groupID).Pluck("id", &current).Error; err != nil {
		return 0, err
	}
	want := make(map[uuid.UUID]struct{}, len(menteeIDs))
	for _, id := range menteeIDs {
		want[id] = struct{}{}
	}
	have := make(map[uuid.UUID]struct{}, len(current))
	from := groupID
	released := 0
	for _, id := range current {
		have[id] = struct{}{}
		if _, keep := want[id]; keep {
			continue
		}
		if err := moveMentee(tx, id, &from, nil, actorID); err != nil {
			return 0, err
		}
		released++
	}
	var incoming []uuid.UUID
	for _, id := range menteeIDs {
		if _, ok := have[id]; !ok {
			incoming = append(incoming, id)
		}
	}
	assigned, err := AssignMenteesToGroupInTx(tx, incoming, groupID, actorID)
	if err != nil {
		return 0, err
	}
	return released + assigned, nil
}

// DeleteGroup = UnassignGroup (lepas semua mentee + soft delete).
func DeleteGroup(ctx context.Context, db *gorm.DB, groupID, actorID uuid.UUID) (int, error) {
	return UnassignGroup(ctx, db, groupID, actorID)
}

// ForceDeleteGroup menghapus permanen kelompok (aktif maupun di sampah).
// Mentee yang masih menempel dilepas dengan riwayat; pertemuan dan
// kehadirannya ikut dihapus. Riwayat tidak dihapus.
// Mengembalikan key foto pertemuan yang perlu dihapus dari storage setelah commit.
func ForceDeleteGroup(ctx context.Context, db *gorm.DB, groupID, actorID uuid.UUID) ([]string, error) {
	var (
		photoKeys []string
		released  int
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group groupModel.GroupModel
		if err := tx.Unscoped().Where("id = ?", groupID).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		var ids []uuid.UUID
		if err := tx.Unscoped().Model(&menteeModel.MenteeModel{}).
			Where("group_id = ?", groupID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		from := groupID
		for _, id := range ids {
			if err := moveMenteeUnscoped(tx, id, &from, actorID); err != nil {
				return err
			}
		}
		released = len(ids)

		var meetings []meetingModel.MeetingModel
		if err := tx.Unscoped().Select("id", "photos").Where("group_id = ?", groupID).Find(&meetings).Error; err != nil {
			return err
		}
		if len(meetings) > 0 {
			meetingIDs := make([]uuid.UUID, len(meetings))
			for i, m := range meetings {
				meetingIDs[i] = m.ID
				photoKeys = append(photoKeys, m.PhotoKeys()...)
			}
			if err := tx.Where("meeting_id IN ?", meetingIDs).Delete(&meetingModel.AttendanceModel{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", meetingIDs).Delete(&meetingModel.MeetingModel{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&group).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, released)
	log.Printf("[SUCCESS] Kelompok %s dihapus permanen oleh %s", groupID, actorID)
	return photoKeys, nil
}

// DetachMentorInTx dipanggil saat user mentor dihapus: semua kelompok
// yang dipegangnya jadi tanpa mentor, masing-masing dengan riwayat.
// Kelompok di tempat sampah ikut dilepas.
func DetachMentorInTx(tx *gorm.DB, mentorID, actorID uuid.UUID) (int, error) {
	var groups []groupModel.GroupModel
	if err := tx.Unscoped().Where("mentor_id = ?", mentorID).Find(&groups).Error; err != nil {
		return 0, err
	}
	for i := range groups {
		if _, err := ChangeGroupMentorInTx(tx, &groups[i], nil, actorID); err != nil {
			return 0, err
		}
	}
	return len(groups), nil
}

// ===================== Mentor scope =====================

// FindOwnedGroup: kelompok milik mentor; milik orang lain = tidak ditemukan.
func FindOwnedGroup(tx *gorm.DB, groupID, mentorID uuid.UUID) (*groupModel.GroupModel, error) {
	var g groupModel.GroupModel
	if err := tx.Where("id = ? AND mentor_id = ?", groupID, mentorID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// AddExistingMentees: mentor menarik mentee dari pool unassigned ke kelompoknya.
// Mentee yang sudah punya kelompok diabaikan.
func AddExistingMentees(ctx context.Context, db *gorm.DB, mentorID, groupID uuid.UUID, menteeIDs []uuid.UUID) (int, error) {
	if len(menteeIDs) == 0 {
		return 0, ErrNoMenteesSelected
	}
	var moved int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindOwnedGroup(tx, groupID, mentorID); err != nil {
			return err
		}
		var eligible []uuid.UUID
		if err := tx.Model(&menteeModel.MenteeModel{}).
			Where("id IN ? AND group_id IS NULL", menteeIDs).
			Pluck("id", &eligible).Error; err != nil {
			return err
		}
		n, err := AssignMenteesToGroupInTx(tx, eligible, groupID, mentorID)
		moved = n
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	return moved, nil
}

// MoveMenteesBetweenOwnGroups: kelompok asal dan tujuan harus milik mentor yang sama.
// Hanya mentee yang saat ini ada di kelompok asal yang dipindah.
func MoveMenteesBetweenOwnGroups(ctx context.Context, db *gorm.DB, mentorID, fromGroupID, toGroupID uuid.UUID, menteeIDs []uuid.UUID) (int, error) {
	if len(menteeIDs) == 0 {
		return 0, ErrNoMenteesSelected
	}
	if fromGroupID == toGroupID {
		return 0, ErrSameGroup
	}
	var moved int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindOwnedGroup(tx, fromGroupID, mentorID); err != nil {
			return err
		}
		if _, err := FindOwnedGroup(tx, toGroupID, mentorID); err != nil {
			return err
		}
		var eligible []uuid.UUID
		if err := tx.Model(&menteeModel.MenteeModel{}).
			Where("id IN ? AND group_id = ?", menteeIDs, fromGroupID).
			Pluck("id", &eligible).Error; err != nil {
			return err
		}
		n, err := AssignMenteesToGroupInTx(tx, eligible, toGroupID, mentorID)
		moved = n
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ObserveHistoryRows(metrics.HistoryMenteeGroup, moved)
	return moved, nil
}

// ===================== internal =====================

func ensureMentor(tx *gorm.DB, mentorID uuid.UUID) error {
	var n int64
	if err := tx.Model(&userModel.UserModel{}).
		Where("id = ? AND role = ?", mentorID, constants.RoleMentor).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrMentorNotFound
	}
	return nil
}

// moveMenteeUnscoped: seperti moveMentee tapi juga menyentuh mentee yang di-soft delete.
func moveMenteeUnscoped(tx *gorm.DB, menteeID uuid.UUID, from *uuid.UUID, actorID uuid.UUID) error {
	if err := tx.Unscoped().Model(&menteeModel.MenteeModel{}).Where("id = ?", menteeID).
		Update("group_id", nil).Error; err != nil {
		return err
	}
	return tx.Create(&groupModel.MenteeGroupHistoryModel{
		MenteeID:    menteeID,
		FromGroupID: from,
		MovedBy:     actorID,
	}).Error
}
