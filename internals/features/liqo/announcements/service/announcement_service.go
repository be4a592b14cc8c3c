package service

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/liqo/announcements/dto"
	"jejakliqo_backend/internals/features/liqo/announcements/model"
	userRepo "jejakliqo_backend/internals/features/users/user/repository"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/dbtime"
	"jejakliqo_backend/internals/helpers/storage"
)

const attachmentDir = "announcements"

var (
	ErrAnnouncementNotFound = fiber.NewError(fiber.StatusNotFound, "Pengumuman tidak ditemukan")
	ErrInvalidEventDate     = fiber.NewError(fiber.StatusUnprocessableEntity, "event_date harus berformat YYYY-MM-DD")
)

type AnnouncementInput struct {
	Title      string
	Content    string
	EventDate  string
	IsArchived bool
	RemoveFile bool
	File       *multipart.FileHeader
}

func InputFromRequest(req dto.AnnouncementRequest, file *multipart.FileHeader) AnnouncementInput {
	return AnnouncementInput{
		Title:      req.Title,
		Content:    req.Content,
		EventDate:  req.EventDate,
		IsArchived: req.IsArchived,
		RemoveFile: req.RemoveFile,
		File:       file,
	}
}

// CreateAnnouncement: lampiran diunggah dulu; kalau insert gagal, file dihapus lagi.
func CreateAnnouncement(ctx context.Context, db *gorm.DB, store storage.Store, in AnnouncementInput, actorID uuid.UUID) (*model.AnnouncementModel, error) {
	eventDate, err := dbtime.ParseDatePtr(in.EventDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidEventDate
	}
	a := model.AnnouncementModel{
		Title:      in.Title,
		Content:    in.Content,
		EventDate:  eventDate,
		IsArchived: in.IsArchived,
		CreatedBy:  actorID,
	}
	if in.File != nil {
		up, err := storage.UploadFile(ctx, store, attachmentDir, in.File)
		if err != nil {
			return nil, err
		}
		kind := string(up.Kind)
		a.FilePath, a.FileType = &up.Key, &kind
	}
	if err := db.WithContext(ctx).Create(&a).Error; err != nil {
		if a.FilePath != nil {
			storage.DeleteQuietly(ctx, store, *a.FilePath)
		}
		return nil, err
	}
	log.Printf("[SUCCESS] Pengumuman %s dibuat oleh %s", a.ID, actorID)
	return &a, nil
}

// UpdateAnnouncement mengganti isi; lampiran lama dihapus dari storage setelah commit
// bila diganti file baru atau RemoveFile=true.
func UpdateAnnouncement(ctx context.Context, db *gorm.DB, store storage.Store, id uuid.UUID, in AnnouncementInput) (*model.AnnouncementModel, error) {
	a, err := FindAnnouncement(ctx, db, id)
	if err != nil {
		return nil, err
	}
	eventDate, err := dbtime.ParseDatePtr(in.EventDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidEventDate
	}

	updates := map[string]interface{}{
		"title":       in.Title,
		"content":     in.Content,
		"event_date":  eventDate,
		"is_archived": in.IsArchived,
	}
	var oldFile, newFile string
	if a.FilePath != nil {
		oldFile = *a.FilePath
	}
	switch {
	case in.File != nil:
		up, err := storage.UploadFile(ctx, store, attachmentDir, in.File)
		if err != nil {
			return nil, err
		}
		newFile = up.Key
		updates["file_path"] = up.Key
		updates["file_type"] = string(up.Kind)
	case in.RemoveFile:
		updates["file_path"] = nil
		updates["file_type"] = nil
	default:
		oldFile = ""
	}

	if err := db.WithContext(ctx).Model(&model.AnnouncementModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		storage.DeleteQuietly(ctx, store, newFile)
		return nil, err
	}
	storage.DeleteQuietly(ctx, store, oldFile)
	return FindAnnouncement(ctx, db, id)
}

func SetArchived(ctx context.Context, db *gorm.DB, id uuid.UUID, archived bool) (*model.AnnouncementModel, error) {
	res := db.WithContext(ctx).Model(&model.AnnouncementModel{}).Where("id = ?", id).Update("is_archived", archived)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAnnouncementNotFound
	}
	return FindAnnouncement(ctx, db, id)
}

// DeleteAnnouncement: pengumuman tidak punya soft delete, langsung hapus beserta lampiran.
func DeleteAnnouncement(ctx context.Context, db *gorm.DB, store storage.Store, id uuid.UUID) error {
	a, err := FindAnnouncement(ctx, db, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&model.AnnouncementModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	if a.FilePath != nil {
		storage.DeleteQuietly(ctx, store, *a.FilePath)
	}
	return nil
}

func FindAnnouncement(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.AnnouncementModel, error) {
	var a model.AnnouncementModel
	if err := db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ===================== query =====================

// AnnouncementFilter: Archived nil = semua; Upcoming = event_date hari ini atau sesudahnya.
type AnnouncementFilter struct {
	Search   string
	Archived *bool
	Upcoming bool
	Today    time.Time
}

func (f AnnouncementFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&model.AnnouncementModel{})
	q = helper.SearchWhere(q, f.Search, "announcements.title", "announcements.content")
	if f.Archived != nil {
		q = q.Where("announcements.is_archived = ?", *f.Archived)
	}
	if f.Upcoming {
		today := f.Today
		if today.IsZero() {
			today = Today()
		}
		q = q.Where("announcements.event_date >= ?", today)
	}
	return q
}

// Today: tanggal hari ini (zona aplikasi) sebagai tengah malam UTC, sama dengan cara event_date disimpan.
func Today() time.Time {
	y, m, d := dbtime.NowInApp().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListAnnouncements: upcoming diurutkan event_date terdekat, selain itu terbaru dulu.
func ListAnnouncements(ctx context.Context, db *gorm.DB, f AnnouncementFilter, p helper.Paging, fileURL func(string) string) ([]dto.AnnouncementResponse, int64, error) {
	q := f.Apply(db.WithContext(ctx))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Upcoming {
		q = q.Order("announcements.event_date ASC")
	} else {
		q = q.Order("announcements.created_at DESC")
	}
	var rows []model.AnnouncementModel
	if err := q.Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := ToResponses(db.WithContext(ctx), rows, fileURL)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func ToResponses(db *gorm.DB, rows []model.AnnouncementModel, fileURL func(string) string) ([]dto.AnnouncementResponse, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.CreatedBy)
	}
	creators, err := userRepo.LoadBriefs(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnnouncementResponse, len(rows))
	for i := range rows {
		out[i] = dto.ToAnnouncementResponse(&rows[i], userRepo.BriefPtr(creators, &rows[i].CreatedBy), fileURL)
	}
	return out, nil
}
