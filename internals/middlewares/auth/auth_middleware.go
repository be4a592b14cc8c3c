// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/configs"
	userModel "jejakliqo_backend/internals/features/users/user/model"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
)

// AuthMiddleware: Bearer → verifikasi JWT → sesi harus ada di
// personal_access_tokens (single session) → user aktif & tidak diblokir.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := authHelper.ExtractBearerToken(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return helper.Error(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims, err := authHelper.ParseAccessToken(tokenString, secretKey)
		if err != nil {
			log.Println("[WARN] Gagal parse token:", err)
			return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized - Token tidak valid atau kedaluwarsa")
		}

		ctx := c.UserContext()
		now := time.Now()
		if _, err := authHelper.FindActive(ctx, db, claims.JTI, tokenString, secretKey, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.Error(c, fiber.StatusUnauthorized, "Sesi sudah berakhir. Silakan login lagi.")
			}
			log.Println("[ERROR] DB error saat cek sesi:", err)
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}

		// role diambil dari DB, bukan dari klaim (bisa berubah setelah login)
		var user userModel.UserModel
		if err := db.WithContext(ctx).Select("id", "role", "blocked_at").
			Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized - User not found")
			}
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
		if user.IsBlocked() {
			if err := authHelper.RevokeAll(ctx, db, user.ID); err != nil {
				log.Println("[WARN] gagal mencabut sesi user terblokir:", err)
			}
			return helper.Error(c, fiber.StatusForbidden, "Akun Anda telah diblokir")
		}

		if err := authHelper.Touch(ctx, db, claims.JTI, now); err != nil {
			log.Println("[WARN] gagal update last_used_at:", err)
		}

		c.Locals(authHelper.LocUserID, user.ID.String())
		c.Locals(authHelper.LocRole, user.Role)
		c.Locals(authHelper.LocTokenID, claims.JTI.String())
		return c.Next()
	}
}
