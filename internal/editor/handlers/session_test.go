package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"plan-editor/internal/editor/controller"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/service"
)

type nopStore struct{}

func (nopStore) SaveIcon(string, persistclient.IconGeometry) error { return nil }
func (nopStore) SavePath(string, persistclient.PathGeometry) error { return nil }
func (nopStore) SaveView(string, persistclient.ViewGeometry) error { return nil }

func newTestApp() *fiber.App {
	h := NewSessionHandler(service.NewSessionManager(nopStore{}))

	app := fiber.New()
	app.Post("/sessions", h.CreateSession)
	app.Get("/sessions/:id", h.GetState)
	app.Post("/sessions/:id/events", h.ApplyEvent)
	app.Delete("/sessions/:id", h.CloseSession)
	return app
}

func postJSON(t *testing.T, app *fiber.App, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return v
}

func validScene() sceneRequest {
	return sceneRequest{
		ViewID:    "view-1",
		ViewBox:   "0 0 100 100",
		Extents:   rectPayload{Width: 200, Height: 200},
		Container: rectPayload{Width: 100, Height: 100},
		Icons: []iconPayload{
			{ID: "icon-1", Transform: "scale(1,1) translate(10,10) rotate(0,0,0)", Rect: rectPayload{Width: 10, Height: 10}},
		},
		Paths: []pathPayload{
			{ID: "path-1", D: "M 0,0 L 10,0"},
		},
	}
}

func TestCreateSession(t *testing.T) {
	app := newTestApp()

	resp := postJSON(t, app, "/sessions", validScene())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	created := decode[createResponse](t, resp)
	if created.SessionID == "" {
		t.Fatal("empty session id")
	}
	if len(created.State.Elements) != 2 {
		t.Errorf("elements = %d, want 2", len(created.State.Elements))
	}
	if created.State.ViewBox != "0 0 100 100" {
		t.Errorf("view box = %q", created.State.ViewBox)
	}
	if created.State.Selection.Owner != "none" {
		t.Errorf("initial selection owner = %q, want none", created.State.Selection.Owner)
	}
}

func TestCreateSessionRejectsBadScene(t *testing.T) {
	app := newTestApp()

	bad := []sceneRequest{
		{ViewBox: "0 0 100 100", Extents: rectPayload{Width: 1, Height: 1}, Container: rectPayload{Width: 1, Height: 1}},
		{ViewID: "v", ViewBox: "not a viewbox", Extents: rectPayload{Width: 1, Height: 1}, Container: rectPayload{Width: 1, Height: 1}},
		{ViewID: "v", ViewBox: "0 0 100 100", Container: rectPayload{Width: 1, Height: 1}},
	}
	for i, scene := range bad {
		resp := postJSON(t, app, "/sessions", scene)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, resp.StatusCode)
		}
	}
}

func TestApplyEventUpdatesState(t *testing.T) {
	app := newTestApp()

	created := decode[createResponse](t, postJSON(t, app, "/sessions", validScene()))
	base := "/sessions/" + created.SessionID

	// Click the icon: pointer down and up without movement.
	postJSON(t, app, base+"/events", controller.InputEvent{Type: "pointerdown", PointerID: 1, Target: "icon-1", X: 15, Y: 15})
	resp := postJSON(t, app, base+"/events", controller.InputEvent{Type: "pointerup", PointerID: 1})

	state := decode[controller.Snapshot](t, resp)
	if state.Selection.Owner != "object-transform" || state.Selection.TargetID != "icon-1" {
		t.Errorf("selection = %+v, want object-transform/icon-1", state.Selection)
	}
}

func TestPathEditExposesProxyGraph(t *testing.T) {
	app := newTestApp()

	created := decode[createResponse](t, postJSON(t, app, "/sessions", validScene()))
	base := "/sessions/" + created.SessionID

	postJSON(t, app, base+"/events", controller.InputEvent{Type: "pointerdown", PointerID: 1, Target: "path-1", X: 5, Y: 0})
	resp := postJSON(t, app, base+"/events", controller.InputEvent{Type: "pointerup", PointerID: 1})

	state := decode[controller.Snapshot](t, resp)
	if state.Proxy == nil {
		t.Fatal("proxy graph missing after entering path edit")
	}
	if state.Proxy.PathID != "path-1" || state.Proxy.PathType != "open" {
		t.Errorf("proxy = %+v", state.Proxy)
	}
	if len(state.Proxy.Points) != 2 || len(state.Proxy.Lines) != 1 {
		t.Errorf("proxy sizes = %d points, %d lines, want 2/1",
			len(state.Proxy.Points), len(state.Proxy.Lines))
	}
}

func TestGetStateAndClose(t *testing.T) {
	app := newTestApp()

	created := decode[createResponse](t, postJSON(t, app, "/sessions", validScene()))
	base := "/sessions/" + created.SessionID

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, base, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, base, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, base, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after close status = %d, want 404", resp.StatusCode)
	}
}

func TestUnknownSession(t *testing.T) {
	app := newTestApp()

	resp := postJSON(t, app, "/sessions/missing/events", controller.InputEvent{Type: "wheel"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
