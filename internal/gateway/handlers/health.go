package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет доступность обоих апстримов шлюза.
func ReadinessProbe(editorURL, persistURL string) fiber.Handler {
	client := &http.Client{Timeout: 2 * time.Second}

	check := func(base string) bool {
		resp, err := client.Get(base + "/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode < 300
	}

	return func(c fiber.Ctx) error {
		status := fiber.Map{
			"editor":  check(editorURL),
			"persist": check(persistURL),
		}
		if status["editor"] == false || status["persist"] == false {
			status["status"] = "degraded"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		status["status"] = "ready"
		return c.JSON(status)
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
