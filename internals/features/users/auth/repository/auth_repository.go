// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "jejakliqo_backend/internals/features/users/user/model"
)

func FindUserByEmail(db *gorm.DB, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByID ikut memuat profile.
func FindUserByID(db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := db.Preload("Profile").Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(db *gorm.DB, userID uuid.UUID, newHash string) error {
	return db.Model(&userModel.UserModel{}).Where("id = ?", userID).Update("password", newHash).Error
}
