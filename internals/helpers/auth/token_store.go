package helper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "jejakliqo_backend/internals/features/users/auth/model"
)

// Store mengganti semua sesi lama user dengan sesi baru (single session).
// Wajib dipanggil di dalam transaksi login.
func ReplaceSessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ac AccessClaims, rawToken, secret string) error {
	if err := RevokeAll(ctx, tx, userID); err != nil {
		return err
	}
	return tx.WithContext(ctx).Create(&authModel.PersonalAccessTokenModel{
		ID:        ac.JTI,
		UserID:    userID,
		TokenHash: HashToken(rawToken, secret),
		ExpiresAt: ac.Exp,
	}).Error
}

// FindActive mencari sesi aktif berdasarkan jti + hash token.
func FindActive(ctx context.Context, db *gorm.DB, jti uuid.UUID, rawToken, secret string, now time.Time) (*authModel.PersonalAccessTokenModel, error) {
	var row authModel.PersonalAccessTokenModel
	err := db.WithContext(ctx).
		Where("id = ? AND token_hash = ? AND expires_at > ?", jti, HashToken(rawToken, secret), now).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func Touch(ctx context.Context, db *gorm.DB, jti uuid.UUID, now time.Time) error {
	return db.WithContext(ctx).Model(&authModel.PersonalAccessTokenModel{}).
		Where("id = ?", jti).
		Update("last_used_at", now).Error
}

func Revoke(ctx context.Context, db *gorm.DB, jti uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", jti).Delete(&authModel.PersonalAccessTokenModel{}).Error
}

func RevokeAll(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	return db.WithContext(ctx).Where("user_id = ?", userID).Delete(&authModel.PersonalAccessTokenModel{}).Error
}

// RevokeOthers dipakai setelah ganti password: sesi saat ini tetap hidup.
func RevokeOthers(ctx context.Context, db *gorm.DB, userID, keep uuid.UUID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, keep).
		Delete(&authModel.PersonalAccessTokenModel{}).Error
}

// PurgeExpired: hapus sesi yang sudah lewat masa berlaku.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&authModel.PersonalAccessTokenModel{})
	return res.RowsAffected, res.Error
}
