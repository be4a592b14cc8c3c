package service

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	"jejakliqo_backend/internals/helpers/storage"
)

const (
	MaxPhotos       = 10
	meetingPhotoDir = "meetings"
)

type AttendanceEntry struct {
	MenteeID uuid.UUID
	Status   meetingModel.AttendanceStatus
	Notes    string
}

type MeetingInput struct {
	GroupID     uuid.UUID
	Topic       string
	MeetingDate time.Time
	MeetingType string
	Place       string
	Notes       string
	Attendances []AttendanceEntry
}

// Scope membatasi operasi ke kelompok milik mentor. Nil = admin (tanpa batas).
type Scope struct {
	MentorID *uuid.UUID
}

func AdminScope() Scope { return Scope{} }

func MentorScope(mentorID uuid.UUID) Scope { return Scope{MentorID: &mentorID} }

func (s Scope) groups(tx *gorm.DB) *gorm.DB {
	if s.MentorID != nil {
		return tx.Where("mentor_id = ?", *s.MentorID)
	}
	return tx
}

func (s Scope) meetings(tx *gorm.DB) *gorm.DB {
	if s.MentorID != nil {
		return tx.Where("meetings.group_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&groupModel.GroupModel{}).
				Select("id").Where("mentor_id = ?", *s.MentorID))
	}
	return tx
}

// CreateMeeting menyimpan pertemuan beserta kehadirannya dalam satu transaksi.
// mentor_id pertemuan = mentor kelompok saat itu.
func CreateMeeting(ctx context.Context, db *gorm.DB, in MeetingInput, scope Scope) (*meetingModel.MeetingModel, error) {
	meeting := meetingModel.MeetingModel{
		GroupID:     in.GroupID,
		Topic:       in.Topic,
		MeetingDate: in.MeetingDate,
		MeetingType: in.MeetingType,
		Place:       in.Place,
		Notes:       in.Notes,
	}
	_ = meeting.SetPhotoKeys(nil)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := findGroup(tx, in.GroupID, scope)
		if err != nil {
			return err
		}
		meeting.MentorID = group.MentorID
		if err := validateAttendances(tx, group.ID, in.Attendances); err != nil {
			return err
		}
		if err := tx.Omit("Attendances").Create(&meeting).Error; err != nil {
			return err
		}
		return insertAttendances(tx, meeting.ID, in.Attendances)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[SUCCESS] Pertemuan %s dibuat untuk kelompok %s (%d kehadiran)", meeting.ID, meeting.GroupID, len(in.Attendances))
	return &meeting, nil
}

// UpdateMeeting mengganti field pertemuan dan seluruh daftar kehadiran.
func UpdateMeeting(ctx context.Context, db *gorm.DB, meetingID uuid.UUID, in MeetingInput, scope Scope) (*meetingModel.MeetingModel, error) {
	var meeting *meetingModel.MeetingModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMeeting(tx, meetingID, scope, false)
		if err != nil {
			return err
		}
		group, err := findGroup(tx, in.GroupID, scope)
		if err != nil {
			return err
		}
		if err := validateAttendances(tx, group.ID, in.Attendances); err != nil {
			return err
		}
		updates := map[string]interface{}{
			"group_id":     in.GroupID,
			"topic":        in.Topic,
			"meeting_date": in.MeetingDate,
			"meeting_type": in.MeetingType,
			"place":        in.Place,
			"notes":        in.Notes,
		}
		if group.ID != m.GroupID {
			updates["mentor_id"] = group.MentorID
		}
		if err := tx.Model(&meetingModel.MeetingModel{}).Where("id = ?", m.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", m.ID).Delete(&meetingModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		if err := insertAttendances(tx, m.ID, in.Attendances); err != nil {
			return err
		}
		meeting, err = findMeeting(tx, m.ID, AdminScope(), false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func DeleteMeeting(ctx context.Context, db *gorm.DB, meetingID uuid.UUID, scope Scope) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMeeting(tx, meetingID, scope, false)
		if err != nil {
			return err
		}
		return tx.Delete(&meetingModel.MeetingModel{}, "id = ?", m.ID).Error
	})
}

func RestoreMeeting(ctx context.Context, db *gorm.DB, meetingID uuid.UUID) (*meetingModel.MeetingModel, error) {
	var meeting *meetingModel.MeetingModel
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMeeting(tx, meetingID, AdminScope(), true)
		if err != nil {
			return err
		}
		if !m.DeletedAt.Valid {
			return ErrMeetingNotTrashed
		}
		if err := tx.Unscoped().Model(&meetingModel.MeetingModel{}).Where("id = ?", m.ID).Update("deleted_at", nil).Error; err != nil {
			return err
		}
		m.DeletedAt = gorm.DeletedAt{}
		meeting = m
		return nil
	})
	return meeting, err
}

// ForceDeleteMeeting menghapus permanen pertemuan + kehadiran, lalu fotonya dari storage.
func ForceDeleteMeeting(ctx context.Context, db *gorm.DB, store storage.Store, meetingID uuid.UUID) error {
	var photos []string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findMeeting(tx, meetingID, AdminScope(), true)
		if err != nil {
			return err
		}
		photos = m.PhotoKeys()
		if err := tx.Where("meeting_id = ?", m.ID).Delete(&meetingModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&meetingModel.MeetingModel{}, "id = ?", m.ID).Error
	})
	if err != nil {
		return err
	}
	storage.DeleteQuietly(ctx, store, photos...)
	log.Printf("[SUCCESS] Pertemuan %s dihapus permanen (%d foto)", meetingID, len(photos))
	return nil
}

// AddPhotos mengunggah foto (dikonversi ke WebP) lalu menambahkannya ke pertemuan.
// Kalau simpan ke DB gagal, file yang sudah terunggah dihapus lagi.
func AddPhotos(ctx context.Context, db *gorm.DB, store storage.Store, meetingID uuid.UUID, files []*multipart.FileHeader, scope Scope) (*meetingModel.MeetingModel, error) {
	m, err := findMeeting(db.WithContext(ctx), meetingID, scope, false)
	if err != nil {
		return nil, err
	}
	existing := m.PhotoKeys()
	if len(existing)+len(files) > MaxPhotos {
		return nil, ErrTooManyPhotos
	}

	for _, fh := range files {
		if constants.DetectFileKind(fh.Filename) != constants.FileKindImage {
			return nil, ErrPhotoNotImage
		}
	}

	var uploaded []string
	for _, fh := range files {
		up, err := storage.UploadFile(ctx, store, meetingPhotoDir, fh)
		if err != nil {
			storage.DeleteQuietly(ctx, store, uploaded...)
			return nil, err
		}
		uploaded = append(uploaded, up.Key)
	}

	if err := m.SetPhotoKeys(append(existing, uploaded...)); err != nil {
		storage.DeleteQuietly(ctx, store, uploaded...)
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&meetingModel.MeetingModel{}).
		Where("id = ?", m.ID).Update("photos", m.Photos).Error; err != nil {
		storage.DeleteQuietly(ctx, store, uploaded...)
		return nil, err
	}
	return m, nil
}

// RemovePhoto melepas satu foto dari pertemuan dan menghapus file-nya.
func RemovePhoto(ctx context.Context, db *gorm.DB, store storage.Store, meetingID uuid.UUID, key string, scope Scope) (*meetingModel.MeetingModel, error) {
	m, err := findMeeting(db.WithContext(ctx), meetingID, scope, false)
	if err != nil {
		return nil, err
	}
	keys := m.PhotoKeys()
	kept := keys[:0]
	found := false
	for _, k := range keys {
		if k == key {
			found = true
			continue
		}
		kept = append(kept, k)
	}
	if !found {
		return m, nil
	}
	if err := m.SetPhotoKeys(kept); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&meetingModel.MeetingModel{}).
		Where("id = ?", m.ID).Update("photos", m.Photos).Error; err != nil {
		return nil, err
	}
	storage.DeleteQuietly(ctx, store, key)
	return m, nil
}

// ===================== internal =====================

func findGroup(tx *gorm.DB, groupID uuid.UUID, scope Scope) (*groupModel.GroupModel, error) {
	var g groupModel.GroupModel
	if err := scope.groups(tx).Where("id = ?", groupID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotAvailable
		}
		return nil, err
	}
	return &g, nil
}

func findMeeting(tx *gorm.DB, meetingID uuid.UUID, scope Scope, withTrashed bool) (*meetingModel.MeetingModel, error) {
	q := tx
	if withTrashed {
		q = q.Unscoped()
	}
	var m meetingModel.MeetingModel
	if err := scope.meetings(q).Where("meetings.id = ?", meetingID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &m, nil
}

// validateAttendances: mentee harus anggota aktif kelompok dan tidak dobel.
func validateAttendances(tx *gorm.DB, groupID uuid.UUID, entries []AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.MenteeID]; dup {
			return ErrAttendanceDuplicate
		}
		seen[e.MenteeID] = struct{}{}
		ids = append(ids, e.MenteeID)
	}
	var n int64
	if err := tx.Model(&menteeModel.MenteeModel{}).
		Where("id IN ? AND group_id = ?", ids, groupID).
		Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(ids) {
		return ErrAttendanceMentee
	}
	return nil
}

func insertAttendances(tx *gorm.DB, meetingID uuid.UUID, entries []AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]meetingModel.AttendanceModel, len(entries))
	for i, e := range entries {
		rows[i] = meetingModel.AttendanceModel{
			MeetingID: meetingID,
			MenteeID:  e.MenteeID,
			Status:    e.Status,
			Notes:     e.Notes,
		}
	}
	return tx.Create(&rows).Error
}
