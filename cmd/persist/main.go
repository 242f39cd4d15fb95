package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"plan-editor/internal/common/config"
	"plan-editor/internal/common/middleware"
	"plan-editor/internal/persist/handlers"
	"plan-editor/internal/persist/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Persistence Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	dbPath := getenv("PERSIST_DB_PATH", "data/db/geometry.db")
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	migrations := getenv("MIGRATIONS_PATH", "migrations/001_init_geometry.sql")
	if err := repo.Init(context.Background(), migrations); err != nil {
		log.Fatalf("init db: %v", err)
	}

	geometryHandler := handlers.NewGeometryHandler(repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Persistence Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Geometry Routes
	// ============================================================

	app.Put("/icons/:id", geometryHandler.SaveIcon)
	app.Get("/icons/:id", geometryHandler.GetIcon)
	app.Put("/paths/:id", geometryHandler.SavePath)
	app.Get("/paths/:id", geometryHandler.GetPath)
	app.Put("/views/:id", geometryHandler.SaveView)
	app.Get("/views/:id", geometryHandler.GetView)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Persistence Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Geometry database at %s", dbPath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
