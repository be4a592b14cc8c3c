package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"jejakliqo_backend/internals/configs"
	tokenHelper "jejakliqo_backend/internals/helpers/auth"
)

// StartTokenCleanupScheduler menghapus sesi kedaluwarsa secara berkala
// (TOKEN_CLEANUP_INTERVAL, default 1 jam) sampai ctx dibatalkan.
func StartTokenCleanupScheduler(ctx context.Context, db *gorm.DB) {
	interval := configs.GetEnvDuration("TOKEN_CLEANUP_INTERVAL", time.Hour)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			RunTokenCleanup(ctx, db, time.Now())
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] scheduler berhenti")
				return
			case <-ticker.C:
			}
		}
	}()
}

func RunTokenCleanup(ctx context.Context, db *gorm.DB, now time.Time) int64 {
	n, err := tokenHelper.PurgeExpired(ctx, db, now)
	if err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus sesi kedaluwarsa: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d sesi kedaluwarsa dihapus", n)
	}
	return n
}
