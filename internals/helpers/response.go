package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Envelope: {status, message, data, meta?}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// ✅ Success Response dengan custom code (contoh 201 untuk created)
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// ✅ Success untuk list ber-pagination
func SuccessWithMeta(c *fiber.Ctx, message string, data interface{}, meta Meta) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
		"meta":    meta,
	})
}

func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
	})
}

// ✅ Error Response dengan detail per field
func ErrorWithDetails(c *fiber.Ctx, code int, message string, errs interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    nil,
		"errors":  errs,
	})
}

// ValidationError → 422 dengan pesan per field (nama field = tag json).
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validasi gagal", fiber.Map{
			"body": err.Error(),
		})
	}
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validasi gagal", ValidationMessages(ve))
}

// FieldError dipakai untuk validasi manual di luar validator (misal: status kehadiran).
func FieldError(c *fiber.Ctx, field, message string) error {
	return ErrorWithDetails(c, fiber.StatusUnprocessableEntity, "Validasi gagal", map[string]string{
		field: message,
	})
}

// FromFiberError mengubah error hasil Transaction (biasanya *fiber.Error)
// menjadi response JSON konsisten via helper.Error.
// Jika bukan *fiber.Error, fallback ke 500 dengan pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Code, fe.Message)
	}
	return Error(c, fiber.StatusInternalServerError, err.Error())
}

// FiberErrorHandler dipasang di fiber.Config agar error yang lolos dari
// handler tetap keluar dalam envelope yang sama.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = fiber.ErrInternalServerError.Message
	}
	return Error(c, code, msg)
}
