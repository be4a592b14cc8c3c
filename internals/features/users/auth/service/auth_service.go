package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/configs"
	"jejakliqo_backend/internals/features/users/auth/dto"
	authHelper "jejakliqo_backend/internals/features/users/auth/helper"
	authRepo "jejakliqo_backend/internals/features/users/auth/repository"
	tokenHelper "jejakliqo_backend/internals/helpers/auth"
)

var (
	ErrInvalidCredentials = errors.New("Email atau password salah")
	ErrUserBlocked        = errors.New("Akun Anda telah diblokir")
	ErrWrongPassword      = errors.New("Password saat ini salah")
	ErrWeakPassword       = errors.New("Password baru harus mengandung huruf dan angka")
)

// Login memverifikasi kredensial dan menerbitkan token baru.
// Semua sesi lama user dihapus dalam transaksi yang sama (single session).
func Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest, now time.Time) (*dto.LoginResponse, error) {
	user, err := authRepo.FindUserByEmail(db.WithContext(ctx), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked() {
		return nil, ErrUserBlocked
	}

	token, claims, err := tokenHelper.IssueAccessToken(user.ID, user.Role, configs.JWTSecret, configs.JWTTTL, now)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tokenHelper.ReplaceSessions(ctx, tx, user.ID, claims, token, configs.JWTSecret)
	}); err != nil {
		return nil, err
	}

	full, err := authRepo.FindUserByID(db.WithContext(ctx), user.ID)
	if err != nil {
		return nil, err
	}
	log.Printf("[SUCCESS] Login user=%s role=%s", user.ID, user.Role)

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.Exp,
		User:      full,
	}, nil
}

func Logout(ctx context.Context, db *gorm.DB, tokenID uuid.UUID) error {
	return tokenHelper.Revoke(ctx, db, tokenID)
}

// ChangePassword mengganti password lalu mencabut semua sesi lain
// (sesi yang sedang dipakai tetap berlaku).
func ChangePassword(ctx context.Context, db *gorm.DB, userID, currentTokenID uuid.UUID, req dto.ChangePasswordRequest) error {
	if !authHelper.IsStrongEnough(req.NewPassword) {
		return ErrWeakPassword
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := authRepo.FindUserByID(tx, userID)
		if err != nil {
			return err
		}
		if err := authHelper.CheckPasswordHash(user.Password, req.CurrentPassword); err != nil {
			return ErrWrongPassword
		}
		hash, err := authHelper.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if err := authRepo.UpdateUserPassword(tx, userID, hash); err != nil {
			return err
		}
		return tokenHelper.RevokeOthers(ctx, tx, userID, currentTokenID)
	})
}
