package user

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/features/users/user/dto"
	userService "jejakliqo_backend/internals/features/users/user/service"
)

type UserSeed struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	Nickname string `json:"nickname"`
	Gender   string `json:"gender"`
}

// SeedSuperAdmin membuat super admin pertama (user + profile) bila email belum terdaftar.
func SeedSuperAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		log.Println("[WARN] SEED_SUPER_ADMIN_EMAIL/PASSWORD kosong, seed super admin dilewati")
		return nil
	}
	return seedOne(ctx, db, UserSeed{
		Email:    email,
		Password: password,
		Role:     constants.RoleSuperAdmin,
		FullName: "Super Admin",
	})
}

// SeedUsersFromJSON: file berisi array UserSeed; email yang sudah ada dilewati.
func SeedUsersFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	log.Println("[INFO] Membaca file user:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	var inputs []UserSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return err
	}
	for _, data := range inputs {
		if !constants.IsValidRole(data.Role) {
			log.Printf("[WARN] Role '%s' untuk '%s' tidak dikenal, dilewati", data.Role, data.Email)
			continue
		}
		if err := seedOne(ctx, db, data); err != nil {
			return err
		}
	}
	return nil
}

func seedOne(ctx context.Context, db *gorm.DB, data UserSeed) error {
	req := dto.CreateUserRequest{
		Email:    data.Email,
		Password: data.Password,
		ProfileFields: dto.ProfileFields{
			FullName: data.FullName,
			Nickname: data.Nickname,
			Gender:   data.Gender,
		},
	}
	user, err := userService.CreateUserWithProfile(ctx, db, data.Role, req)
	if errors.Is(err, userService.ErrEmailTaken) {
		log.Printf("[INFO] User dengan email '%s' sudah ada, dilewati.", data.Email)
		return nil
	}
	if err != nil {
		log.Printf("[ERROR] Gagal insert user '%s': %v", data.Email, err)
		return err
	}
	log.Printf("[SUCCESS] Berhasil insert %s '%s'", user.Role, user.Email)
	return nil
}
