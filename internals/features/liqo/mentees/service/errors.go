package service

import "github.com/gofiber/fiber/v2"

var (
	ErrMenteeNotFound   = fiber.NewError(fiber.StatusNotFound, "Mentee tidak ditemukan")
	ErrMenteeNotTrashed = fiber.NewError(fiber.StatusConflict, "Mentee tidak berada di tempat sampah")
	ErrInvalidBirthDate = fiber.NewError(fiber.StatusUnprocessableEntity, "Format birth_date harus YYYY-MM-DD")
)
