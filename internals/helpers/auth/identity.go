package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jejakliqo_backend/internals/constants"
)

// Nama locals yang diisi AuthMiddleware
const (
	LocUserID  = "user_id"
	LocRole    = "userRole"
	LocTokenID = "token_id"
)

// Ambil user_id dari c.Locals("user_id")
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID, "User belum login", "User ID pada token tidak valid")
}

// GetTokenID = jti dari sesi yang sedang dipakai.
func GetTokenID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocTokenID, "Sesi tidak ditemukan", "Token ID tidak valid")
}

func GetRoleFromToken(c *fiber.Ctx) string {
	role, _ := c.Locals(LocRole).(string)
	return strings.TrimSpace(role)
}

func IsSuperAdmin(c *fiber.Ctx) bool {
	return GetRoleFromToken(c) == constants.RoleSuperAdmin
}

func IsAdminOrAbove(c *fiber.Ctx) bool {
	switch GetRoleFromToken(c) {
	case constants.RoleAdmin, constants.RoleSuperAdmin:
		return true
	}
	return false
}

func uuidFromLocals(c *fiber.Ctx, key, missingMsg, invalidMsg string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
	}

	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, invalidMsg)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, missingMsg)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, invalidMsg)
	}
	return id, nil
}
