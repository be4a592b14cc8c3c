package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"jejakliqo_backend/internals/configs"
	database "jejakliqo_backend/internals/databases"
	scheduler "jejakliqo_backend/internals/features/users/auth/scheduler"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/cache"
	"jejakliqo_backend/internals/helpers/storage"
	middlewares "jejakliqo_backend/internals/middlewares"
	routes "jejakliqo_backend/internals/route"
	"jejakliqo_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.FiberErrorHandler,
		BodyLimit:               12 * 1024 * 1024, // lampiran maks 10 MB + field form
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.GetEnvBool("DB_AUTO_MIGRATE", false) {
		if err := database.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
	}
	if configs.GetEnvBool("SEED", false) {
		seeds.RunAllSeeds(database.DB)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := storage.NewFromEnv(rootCtx)
	if err != nil {
		log.Fatalf("❌ Storage gagal disiapkan: %v", err)
	}
	deps := routes.Deps{
		Store: store,
		Cache: cache.NewFromEnv(rootCtx),
	}
	if store.Driver() == storage.DriverFS {
		deps.StaticRoot = configs.StorageRoot
	}

	// ⏱ scheduler setelah DB siap
	scheduler.StartTokenCleanupScheduler(rootCtx, database.DB)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, deps)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
