package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"plan-editor/internal/common/config"
	"plan-editor/internal/common/middleware"
	"plan-editor/internal/editor/handlers"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	persistURL := getenv("PERSIST_URL", "http://localhost:3002")
	store := persistclient.New(persistURL)

	sessions := service.NewSessionManager(store)
	sessionHandler := handlers.NewSessionHandler(sessions)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Editor Service",
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
		return c.JSON(fiber.Map{
			"status":   "ready",
			"sessions": sessions.Count(),
		})
	})

	// ============================================================
	// Session Routes
	// ============================================================

	app.Post("/sessions", sessionHandler.CreateSession)
	app.Get("/sessions/:id", sessionHandler.GetState)
	app.Post("/sessions/:id/events", sessionHandler.ApplyEvent)
	app.Delete("/sessions/:id", sessionHandler.CloseSession)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Editor Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Persisting geometry to %s", persistURL)

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
