package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/editor/controller"
	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/scene"
	"plan-editor/internal/editor/service"
)

// ============================================================
// Session Handler
// ============================================================

type SessionHandler struct {
	sessions *service.SessionManager
}

func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// sceneRequest — описание сцены, под которую открывается сессия.
type sceneRequest struct {
	ViewID    string      `json:"view_id"`
	ViewBox   string      `json:"view_box"`
	Rotation  float64     `json:"rotation"`
	Extents   rectPayload `json:"extents"`
	Container rectPayload `json:"container"`

	Icons []iconPayload `json:"icons"`
	Paths []pathPayload `json:"paths"`
}

type rectPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type iconPayload struct {
	ID        string      `json:"id"`
	Transform string      `json:"transform"`
	Rect      rectPayload `json:"rect"`
}

type pathPayload struct {
	ID string `json:"id"`
	D  string `json:"d"`
}

type createResponse struct {
	SessionID string              `json:"session_id"`
	State     controller.Snapshot `json:"state"`
}

// CreateSession открывает сессию редактирования по описанию сцены.
func (h *SessionHandler) CreateSession(c fiber.Ctx) error {
	log.Printf("[EDITOR] Create session request")

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req sceneRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	if req.ViewID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "view_id required"})
	}
	vb, err := geometry.ParseViewBox(req.ViewBox)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid view_box"})
	}
	if req.Extents.Width <= 0 || req.Extents.Height <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid extents"})
	}
	if req.Container.Width <= 0 || req.Container.Height <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid container"})
	}

	doc := scene.NewDocument(req.ViewID, vb, toRect(req.Extents), toRect(req.Container))
	doc.SetRotation(req.Rotation)
	for _, ic := range req.Icons {
		if ic.ID == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "icon id required"})
		}
		doc.AddIcon(ic.ID, ic.Transform, toRect(ic.Rect))
	}
	for _, p := range req.Paths {
		if p.ID == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "path id required"})
		}
		doc.AddPath(p.ID, p.D)
	}

	s := h.sessions.Open(doc)
	log.Printf("[EDITOR] Session %s opened for view %s (%d elements)",
		s.ID, req.ViewID, len(req.Icons)+len(req.Paths))

	return c.Status(http.StatusCreated).JSON(createResponse{
		SessionID: s.ID,
		State:     s.Snapshot(),
	})
}

// GetState возвращает текущее состояние сессии.
func (h *SessionHandler) GetState(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(s.Snapshot())
}

// ApplyEvent прогоняет одно событие ввода через сессию и возвращает
// обновленное состояние.
func (h *SessionHandler) ApplyEvent(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var ev controller.InputEvent
	if err := json.Unmarshal(c.Body(), &ev); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if ev.Type == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "event type required"})
	}

	s.Apply(ev)
	return c.JSON(s.Snapshot())
}

// CloseSession завершает сессию: незавершенная правка пути
// сворачивается, отложенные сохранения выполняются.
func (h *SessionHandler) CloseSession(c fiber.Ctx) error {
	id := c.Params("id")
	if !h.sessions.Close(id) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	log.Printf("[EDITOR] Session %s closed", id)
	return c.JSON(fiber.Map{"status": "closed"})
}

func toRect(r rectPayload) models.Rect {
	return models.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
