package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"plan-editor/internal/common/config"
	"plan-editor/internal/common/middleware"
	"plan-editor/internal/gateway/handlers"
	"plan-editor/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	editorURL := getEnv("EDITOR_URL", "http://localhost:3001")
	persistURL := getEnv("PERSIST_URL", "http://localhost:3002")

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Plan Editor Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.CORS())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe(editorURL, persistURL))
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Plan Editor Gateway v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Editor Service
	api.Post("/sessions", proxy.ProxyTo(editorURL+"/sessions"))
	api.Get("/sessions/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s", editorURL, c.Params("id")))
	})
	api.Post("/sessions/:id/events", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s/events", editorURL, c.Params("id")))
	})
	api.Delete("/sessions/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/sessions/%s", editorURL, c.Params("id")))
	})

	// Persistence Service (чтение сохраненной геометрии)
	api.Get("/icons/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/icons/%s", persistURL, c.Params("id")))
	})
	api.Get("/paths/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/paths/%s", persistURL, c.Params("id")))
	})
	api.Get("/views/:id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/views/%s", persistURL, c.Params("id")))
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Plan Editor Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /sessions to %s", editorURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
