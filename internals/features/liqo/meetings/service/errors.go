package service

import "github.com/gofiber/fiber/v2"

var (
	ErrMeetingNotFound     = fiber.NewError(fiber.StatusNotFound, "Pertemuan tidak ditemukan")
	ErrMeetingNotTrashed   = fiber.NewError(fiber.StatusConflict, "Pertemuan tidak berada di tempat sampah")
	ErrGroupNotAvailable   = fiber.NewError(fiber.StatusUnprocessableEntity, "Kelompok tidak ditemukan")
	ErrAttendanceMentee    = fiber.NewError(fiber.StatusUnprocessableEntity, "Kehadiran hanya untuk mentee anggota kelompok")
	ErrAttendanceDuplicate = fiber.NewError(fiber.StatusUnprocessableEntity, "Mentee tercatat lebih dari sekali")
	ErrTooManyPhotos       = fiber.NewError(fiber.StatusUnprocessableEntity, "Foto pertemuan maksimal 10")
	ErrPhotoNotImage       = fiber.NewError(fiber.StatusUnsupportedMediaType, "Foto pertemuan harus berupa gambar")
)
