package service

import "github.com/gofiber/fiber/v2"

// Error berupa *fiber.Error supaya controller cukup memanggil helper.FromFiberError.
var (
	ErrGroupNotFound      = fiber.NewError(fiber.StatusNotFound, "Kelompok tidak ditemukan")
	ErrGroupNotTrashed    = fiber.NewError(fiber.StatusConflict, "Kelompok tidak berada di tempat sampah")
	ErrMentorNotFound     = fiber.NewError(fiber.StatusUnprocessableEntity, "Mentor tidak ditemukan atau bukan mentor")
	ErrSameGroup          = fiber.NewError(fiber.StatusUnprocessableEntity, "Kelompok asal dan tujuan sama")
	ErrNoMenteesSelected  = fiber.NewError(fiber.StatusUnprocessableEntity, "Tidak ada mentee yang dipilih")
	ErrTargetGroupMissing = fiber.NewError(fiber.StatusUnprocessableEntity, "Kelompok tujuan tidak ditemukan")
)
