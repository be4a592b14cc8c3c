package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	"jejakliqo_backend/internals/configs"
	users "jejakliqo_backend/internals/seeds/users/auth"
)

// RunAllSeeds dipanggil dari main saat SEED=true.
func RunAllSeeds(db *gorm.DB) {
	ctx := context.Background()

	//* Super admin pertama
	if err := users.SeedSuperAdmin(ctx, db,
		configs.GetEnv("SEED_SUPER_ADMIN_EMAIL"),
		configs.GetEnv("SEED_SUPER_ADMIN_PASSWORD"),
	); err != nil {
		log.Printf("[ERROR] Seed super admin gagal: %v", err)
	}

	//* User tambahan (opsional)
	if path := configs.GetEnv("SEED_USERS_FILE"); path != "" {
		if err := users.SeedUsersFromJSON(ctx, db, path); err != nil {
			log.Printf("[ERROR] Seed user dari %s gagal: %v", path, err)
		}
	}
}
