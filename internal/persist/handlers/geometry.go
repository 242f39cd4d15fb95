package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/persist/models"
	"plan-editor/internal/persist/repository"
)

// ============================================================
// Geometry Handler
// ============================================================

type GeometryHandler struct {
	repo *repository.Repository
}

func NewGeometryHandler(repo *repository.Repository) *GeometryHandler {
	return &GeometryHandler{repo: repo}
}

// SaveIcon принимает полную геометрию иконки и перезаписывает запись.
func (h *GeometryHandler) SaveIcon(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}

	var g models.IconGeometry
	if err := json.Unmarshal(c.Body(), &g); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	g.ID = id

	if err := h.repo.UpsertIcon(context.Background(), g); err != nil {
		log.Printf("[PERSIST] save icon %s: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "save failed"})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

func (h *GeometryHandler) GetIcon(c fiber.Ctx) error {
	g, err := h.repo.GetIcon(context.Background(), c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "icon not found"})
	}
	return c.JSON(g)
}

// SavePath принимает сериализованный путь целиком.
func (h *GeometryHandler) SavePath(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}

	var g models.PathGeometry
	if err := json.Unmarshal(c.Body(), &g); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	g.ID = id

	if err := h.repo.UpsertPath(context.Background(), g); err != nil {
		log.Printf("[PERSIST] save path %s: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "save failed"})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

func (h *GeometryHandler) GetPath(c fiber.Ctx) error {
	g, err := h.repo.GetPath(context.Background(), c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "path not found"})
	}
	return c.JSON(g)
}

// SaveView принимает viewBox и поворот фона.
func (h *GeometryHandler) SaveView(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "id required"})
	}

	var g models.ViewGeometry
	if err := json.Unmarshal(c.Body(), &g); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	g.ID = id

	if err := h.repo.UpsertView(context.Background(), g); err != nil {
		log.Printf("[PERSIST] save view %s: %v", id, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "save failed"})
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

func (h *GeometryHandler) GetView(c fiber.Ctx) error {
	g, err := h.repo.GetView(context.Background(), c.Params("id"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "view not found"})
	}
	return c.JSON(g)
}
