package dto

import (
	"time"

	userModel "jejakliqo_backend/internals/features/users/user/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

type LoginResponse struct {
	Token     string               `json:"token"`
	TokenType string               `json:"token_type"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      *userModel.UserModel `json:"user"`
}
