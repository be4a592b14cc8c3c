package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/users/auth/dto"
	authRepo "jejakliqo_backend/internals/features/users/auth/repository"
	"jejakliqo_backend/internals/features/users/auth/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	resp, err := service.Login(c.UserContext(), ac.DB, req, time.Now())
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return helper.Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserBlocked):
		return helper.Error(c, fiber.StatusForbidden, err.Error())
	case err != nil:
		log.Printf("[ERROR] Login gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Login berhasil", resp)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	tokenID, err := authHelper.GetTokenID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.Logout(c.UserContext(), ac.DB, tokenID); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Logout berhasil", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := authRepo.FindUserByID(ac.DB.WithContext(c.UserContext()), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Data user berhasil diambil", user)
}

// PUT /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	tokenID, err := authHelper.GetTokenID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	err = service.ChangePassword(c.UserContext(), ac.DB, userID, tokenID, req)
	switch {
	case errors.Is(err, service.ErrWrongPassword):
		return helper.FieldError(c, "current_password", err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		return helper.FieldError(c, "new_password", err.Error())
	case err != nil:
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	log.Printf("[SUCCESS] Password diganti user=%s", userID)
	return helper.Success(c, "Password berhasil diganti", nil)
}
