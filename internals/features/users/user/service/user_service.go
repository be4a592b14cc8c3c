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

	"jejakliqo_backend/internals/constants"
	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	authHelpers "jejakliqo_backend/internals/features/users/auth/helper"
	authModel "jejakliqo_backend/internals/features/users/auth/model"
	"jejakliqo_backend/internals/features/users/user/dto"
	uModel "jejakliqo_backend/internals/features/users/user/model"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/dbtime"
	"jejakliqo_backend/internals/helpers/storage"
)

var (
	ErrUserNotFound     = fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	ErrUserNotTrashed   = fiber.NewError(fiber.StatusConflict, "User tidak berada di tempat sampah")
	ErrEmailTaken       = fiber.NewError(fiber.StatusUnprocessableEntity, "Email sudah digunakan")
	ErrCannotDeleteSelf = fiber.NewError(fiber.StatusForbidden, "Tidak boleh menghapus akun sendiri")
	ErrCannotBlockSelf  = fiber.NewError(fiber.StatusForbidden, "Tidak boleh memblokir akun sendiri")
	ErrProfileMissing   = fiber.NewError(fiber.StatusNotFound, "Profile tidak ditemukan")
)

const profilePictureDir = "profile-pictures"

// CreateUserWithProfile membuat user + profile dalam satu transaksi.
// Role ditentukan pemanggil (endpoint /admins atau /mentors, atau seeder).
func CreateUserWithProfile(ctx context.Context, db *gorm.DB, role string, req dto.CreateUserRequest) (*uModel.UserModel, error) {
	req.Normalize()
	if !authHelpers.IsStrongEnough(req.Password) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Password terlalu lemah")
	}
	hashed, err := authHelpers.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	profile, err := profileFromFields(req.ProfileFields)
	if err != nil {
		return nil, err
	}

	user := uModel.UserModel{
		Role:     role,
		Email:    req.Email,
		Password: hashed,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, req.Email, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		profile.UserID = user.ID
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	user.Profile = &profile
	log.Printf("[SUCCESS] User %s (%s) dibuat", user.Email, role)
	return &user, nil
}

// UpdateUserWithProfile: email, password (opsional), dan data profile sekaligus.
func UpdateUserWithProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string, req dto.UpdateUserRequest) (*uModel.UserModel, error) {
	req.Normalize()
	fields, err := profileFromFields(req.ProfileFields)
	if err != nil {
		return nil, err
	}

	var user uModel.UserModel
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND role = ?", userID, role).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := ensureEmailFree(tx, req.Email, user.ID); err != nil {
			return err
		}

		updates := map[string]interface{}{"email": req.Email}
		if req.Password != "" {
			if !authHelpers.IsStrongEnough(req.Password) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Password terlalu lemah")
			}
			hashed, err := authHelpers.HashPassword(req.Password)
			if err != nil {
				return err
			}
			updates["password"] = hashed
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return updateProfileInTx(tx, user.ID, fields)
	})
	if err != nil {
		return nil, err
	}
	return FindUser(ctx, db, userID, role, false)
}

// UpdateOwnProfile dipakai /api/profile (semua role).
func UpdateOwnProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID, fields dto.ProfileFields) (*uModel.ProfileModel, error) {
	fields.Normalize()
	p, err := profileFromFields(fields)
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateProfileInTx(tx, userID, p)
	})
	if err != nil {
		return nil, err
	}
	return FindProfile(ctx, db, userID)
}

// UpdateProfilePicture menyimpan foto baru lalu menghapus yang lama setelah commit.
func UpdateProfilePicture(ctx context.Context, db *gorm.DB, store storage.Store, userID uuid.UUID, fh *multipart.FileHeader) (*uModel.ProfileModel, error) {
	profile, err := FindProfile(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	up, err := storage.UploadFile(ctx, store, profilePictureDir, fh)
	if err != nil {
		return nil, err
	}
	if up.Kind != constants.FileKindImage {
		storage.DeleteQuietly(ctx, store, up.Key)
		return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Foto profil harus berupa gambar")
	}
	old := profile.ProfilePicture
	if err := db.WithContext(ctx).Model(&uModel.ProfileModel{}).
		Where("user_id = ?", userID).
		Update("profile_picture", up.Key).Error; err != nil {
		storage.DeleteQuietly(ctx, store, up.Key)
		return nil, err
	}
	storage.DeleteQuietly(ctx, store, old)
	profile.ProfilePicture = up.Key
	return profile, nil
}

// SoftDeleteUser: mentor yang dihapus dilepas dari semua kelompoknya
// (dengan riwayat) dan semua sesinya dicabut.
func SoftDeleteUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string, actorID uuid.UUID, actorIsSuperAdmin bool) error {
	if userID == actorID && !actorIsSuperAdmin {
		return ErrCannotDeleteSelf
	}
	var detached int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user uModel.UserModel
		if err := tx.Where("id = ? AND role = ?", userID, role).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		n, err := groupService.DetachMentorInTx(tx, user.ID, actorID)
		if err != nil {
			return err
		}
		detached = n
		if err := authHelper.RevokeAll(ctx, tx, user.ID); err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}
	log.Printf("[SUCCESS] User %s dihapus oleh %s (%d kelompok dilepas)", userID, actorID, detached)
	return nil
}

// RestoreUser tidak mengembalikan kelompok yang dulu dipegang.
func RestoreUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string) (*uModel.UserModel, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user uModel.UserModel
		if err := tx.Unscoped().Where("id = ? AND role = ?", userID, role).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if !user.DeletedAt.Valid {
			return ErrUserNotTrashed
		}
		return tx.Unscoped().Model(&user).Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return FindUser(ctx, db, userID, role, false)
}

// ForceDeleteUser menghapus permanen user, profile, dan sesinya. Riwayat tetap.
func ForceDeleteUser(ctx context.Context, db *gorm.DB, store storage.Store, userID uuid.UUID, role string, actorID uuid.UUID, actorIsSuperAdmin bool) error {
	if userID == actorID && !actorIsSuperAdmin {
		return ErrCannotDeleteSelf
	}
	var picture string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user uModel.UserModel
		if err := tx.Unscoped().Preload("Profile").
			Where("id = ? AND role = ?", userID, role).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := groupService.DetachMentorInTx(tx, user.ID, actorID); err != nil {
			return err
		}
		if err := tx.Unscoped().Model(&meetingModel.MeetingModel{}).
			Where("mentor_id = ?", user.ID).
			Update("mentor_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&authModel.PersonalAccessTokenModel{}).Error; err != nil {
			return err
		}
		if user.Profile != nil {
			picture = user.Profile.ProfilePicture
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&uModel.ProfileModel{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		return err
	}
	storage.DeleteQuietly(ctx, store, picture)
	log.Printf("[SUCCESS] User %s dihapus permanen oleh %s", userID, actorID)
	return nil
}

// BlockUser mencabut semua sesi; AuthMiddleware menolak user yang diblokir.
func BlockUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string, actorID uuid.UUID, now time.Time) (*uModel.UserModel, error) {
	if userID == actorID {
		return nil, ErrCannotBlockSelf
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&uModel.UserModel{}).
			Where("id = ? AND role = ?", userID, role).
			Update("blocked_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return authHelper.RevokeAll(ctx, tx, userID)
	})
	if err != nil {
		return nil, err
	}
	return FindUser(ctx, db, userID, role, false)
}

func UnblockUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string) (*uModel.UserModel, error) {
	res := db.WithContext(ctx).Model(&uModel.UserModel{}).
		Where("id = ? AND role = ?", userID, role).
		Update("blocked_at", nil)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return FindUser(ctx, db, userID, role, false)
}

// FindUser memuat user + profile. withTrashed=true ikut mencari di tempat sampah.
func FindUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string, withTrashed bool) (*uModel.UserModel, error) {
	q := db.WithContext(ctx).Preload("Profile")
	if withTrashed {
		q = q.Unscoped()
	}
	var user uModel.UserModel
	if err := q.Where("id = ? AND role = ?", userID, role).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func FindProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*uModel.ProfileModel, error) {
	var p uModel.ProfileModel
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileMissing
		}
		return nil, err
	}
	return &p, nil
}

// ===================== internal =====================

// ensureEmailFree mengecek juga user di tempat sampah (unique index tidak peduli deleted_at).
func ensureEmailFree(tx *gorm.DB, email string, except uuid.UUID) error {
	var n int64
	q := tx.Unscoped().Model(&uModel.UserModel{}).Where("email = ?", email)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrEmailTaken
	}
	return nil
}

func profileFromFields(f dto.ProfileFields) (uModel.ProfileModel, error) {
	birth, err := dbtime.ParseDatePtr(f.BirthDate, time.UTC)
	if err != nil {
		return uModel.ProfileModel{}, fiber.NewError(fiber.StatusUnprocessableEntity, "Format birth_date harus YYYY-MM-DD")
	}
	return uModel.ProfileModel{
		FullName:    f.FullName,
		Nickname:    f.Nickname,
		Gender:      f.Gender,
		BirthDate:   birth,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
		Job:         f.Job,
		Hobby:       f.Hobby,
		Status:      f.Status,
		StatusNote:  f.StatusNote,
	}, nil
}

func updateProfileInTx(tx *gorm.DB, userID uuid.UUID, p uModel.ProfileModel) error {
	res := tx.Model(&uModel.ProfileModel{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"full_name":    p.FullName,
		"nickname":     p.Nickname,
		"gender":       p.Gender,
		"birth_date":   p.BirthDate,
		"phone_number": p.PhoneNumber,
		"address":      p.Address,
		"job":          p.Job,
		"hobby":        p.Hobby,
		"status":       p.Status,
		"status_note":  p.StatusNote,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileMissing
	}
	return nil
}
