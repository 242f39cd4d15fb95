package controller

import (
	"math"
	"sync"
	"testing"
	"time"

	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// fakeStore records persisted geometry for assertions.
type fakeStore struct {
	mu    sync.Mutex
	icons map[string]persistclient.IconGeometry
	paths map[string]persistclient.PathGeometry
	views map[string]persistclient.ViewGeometry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		icons: make(map[string]persistclient.IconGeometry),
		paths: make(map[string]persistclient.PathGeometry),
		views: make(map[string]persistclient.ViewGeometry),
	}
}

func (f *fakeStore) SaveIcon(id string, g persistclient.IconGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.icons[id] = g
	return nil
}

func (f *fakeStore) SavePath(id string, g persistclient.PathGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[id] = g
	return nil
}

func (f *fakeStore) SaveView(id string, g persistclient.ViewGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[id] = g
	return nil
}

func (f *fakeStore) path(id string) (persistclient.PathGeometry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.paths[id]
	return g, ok
}

// newTestDoc builds a 1:1 screen/scene mapping: container and viewBox
// are both 100x100 at the origin, extents 200x200.
func newTestDoc() *scene.Document {
	return scene.NewDocument(
		"view-1",
		models.ViewBox{X: 0, Y: 0, Width: 100, Height: 100},
		models.Rect{X: 0, Y: 0, Width: 200, Height: 200},
		models.Rect{X: 0, Y: 0, Width: 100, Height: 100},
	)
}

func newTestView(doc *scene.Document) (*ViewController, *fakeStore) {
	store := newFakeStore()
	return NewViewController(doc, persistclient.NewSaverWithDelay(store, 5*time.Millisecond)), store
}

func drag(startX, startY, lastX, lastY float64) models.PointerGesture {
	return models.PointerGesture{
		Start:    models.GestureStart{X: startX, Y: startY, T: time.Now()},
		Last:     models.Point{X: lastX, Y: lastY},
		IsMoving: true,
	}
}

func TestViewPan(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)

	// Dragging the background left/up moves the window right/down.
	v.HandleMove(drag(50, 50, 40, 45))

	if doc.ViewBox.X != 10 || doc.ViewBox.Y != 5 {
		t.Errorf("viewBox origin = (%v,%v), want (10,5)", doc.ViewBox.X, doc.ViewBox.Y)
	}
	if doc.ViewBox.Width != 100 || doc.ViewBox.Height != 100 {
		t.Errorf("pan must not change size: %+v", doc.ViewBox)
	}
}

func TestViewPanClampedToExtents(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)

	// A huge drag cannot push the window outside the extents.
	v.HandleMove(drag(0, 0, 500, 500))
	if doc.ViewBox.X != 0 || doc.ViewBox.Y != 0 {
		t.Errorf("clamped origin = (%v,%v), want (0,0)", doc.ViewBox.X, doc.ViewBox.Y)
	}

	v.HandleEnd(drag(0, 0, 500, 500))
	v.HandleMove(drag(500, 500, 0, 0))
	if doc.ViewBox.X != 100 || doc.ViewBox.Y != 100 {
		t.Errorf("clamped origin = (%v,%v), want (100,100)", doc.ViewBox.X, doc.ViewBox.Y)
	}
}

func TestViewPanUnderRotationFeelsScreenRelative(t *testing.T) {
	doc := newTestDoc()
	doc.SetRotation(90)
	v, _ := newTestView(doc)

	// With the background rotated 90 degrees, a horizontal screen drag
	// must pan the counter-rotated axis: the delta lands on Y, not X.
	v.HandleMove(drag(40, 50, 50, 50))

	if math.Abs(doc.ViewBox.Y-10) > 1e-9 {
		t.Errorf("viewBox.Y = %v, want 10", doc.ViewBox.Y)
	}
	if math.Abs(doc.ViewBox.X) > 1e-9 {
		t.Errorf("rotated pan leaked into X: %+v", doc.ViewBox)
	}
}

// Scenario: zooming out by a factor of 2 against equal extents clamps
// back to the extents size.
func TestViewScaleClampAtExtents(t *testing.T) {
	doc := scene.NewDocument(
		"view-1",
		models.ViewBox{X: 0, Y: 0, Width: 100, Height: 100},
		models.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		models.Rect{X: 0, Y: 0, Width: 100, Height: 100},
	)
	v, _ := newTestView(doc)
	v.SetMode(ViewScale)

	// Start 300px from the scene center, drag onto it: factor = 2.
	v.HandleMove(drag(350, 50, 50, 50))

	vb := doc.ViewBox
	if vb.Width != 100 || vb.Height != 100 {
		t.Errorf("size = %vx%v, want clamped 100x100", vb.Width, vb.Height)
	}
	if vb.X != 0 || vb.Y != 0 {
		t.Errorf("origin = (%v,%v), want (0,0)", vb.X, vb.Y)
	}
}

func TestViewScaleZoomIn(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)
	v.SetMode(ViewScale)

	// Moving 150px away from the center: factor = 1 - 150/300 = 0.5.
	v.HandleMove(drag(50, 50, 200, 50))

	vb := doc.ViewBox
	if math.Abs(vb.Width-50) > 1e-9 || math.Abs(vb.Height-50) > 1e-9 {
		t.Errorf("size = %vx%v, want 50x50", vb.Width, vb.Height)
	}
	// The window center must stay put.
	if math.Abs(vb.X-25) > 1e-9 || math.Abs(vb.Y-25) > 1e-9 {
		t.Errorf("origin = (%v,%v), want (25,25)", vb.X, vb.Y)
	}
}

func TestViewEscapeAbortsScale(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)
	v.SetMode(ViewScale)

	v.HandleMove(drag(50, 50, 200, 50))
	if doc.ViewBox.Width == 100 {
		t.Fatal("scale drag had no effect")
	}

	v.Abort()
	if doc.ViewBox.Width != 100 || doc.ViewBox.X != 0 {
		t.Errorf("abort did not restore geometry: %+v", doc.ViewBox)
	}
	if v.Mode() != ViewMove {
		t.Errorf("abort must return to Move mode, got %v", v.Mode())
	}
}

// Abort in the default Move mode with no drag in flight must not touch
// geometry: the initial rotation and any committed pans stay.
func TestViewAbortWithoutModeKeepsGeometry(t *testing.T) {
	doc := newTestDoc()
	doc.SetRotation(45)
	v, _ := newTestView(doc)

	v.Abort()

	if doc.Rotation != 45 {
		t.Errorf("rotation after abort = %v, want 45", doc.Rotation)
	}
	if doc.ViewBox != (models.ViewBox{X: 0, Y: 0, Width: 100, Height: 100}) {
		t.Errorf("viewBox after abort = %+v", doc.ViewBox)
	}
}

func TestViewAbortKeepsCommittedPan(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)

	g := drag(50, 50, 40, 45)
	v.HandleMove(g)
	v.HandleEnd(g)
	if doc.ViewBox.X != 10 {
		t.Fatal("pan had no effect")
	}

	v.Abort()

	if doc.ViewBox.X != 10 || doc.ViewBox.Y != 5 {
		t.Errorf("abort rolled back a committed pan: %+v", doc.ViewBox)
	}
}

func TestViewAbortCancelsPanInFlight(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)

	v.HandleMove(drag(50, 50, 40, 45))
	if doc.ViewBox.X != 10 {
		t.Fatal("pan had no effect")
	}

	// No drag end yet: abort restores the drag-start geometry.
	v.Abort()

	if doc.ViewBox.X != 0 || doc.ViewBox.Y != 0 {
		t.Errorf("in-flight pan was not cancelled: %+v", doc.ViewBox)
	}
}

func TestViewRotateSteps(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)
	v.SetMode(ViewRotate)

	v.HandleStep(true)
	v.HandleStep(true)
	if doc.Rotation != 10 {
		t.Errorf("rotation = %v, want 10", doc.Rotation)
	}

	v.HandleStep(false)
	if doc.Rotation != 5 {
		t.Errorf("rotation = %v, want 5", doc.Rotation)
	}

	// Steps below zero wrap into [0,360).
	v.HandleStep(false)
	v.HandleStep(false)
	if doc.Rotation != 355 {
		t.Errorf("rotation = %v, want 355", doc.Rotation)
	}
}

func TestViewClampIdempotent(t *testing.T) {
	doc := newTestDoc()
	doc.SetRotation(30)
	v, _ := newTestView(doc)

	candidates := []models.ViewBox{
		{X: -50, Y: -50, Width: 100, Height: 100},
		{X: 500, Y: 500, Width: 100, Height: 100},
		{X: 0, Y: 0, Width: 1000, Height: 1000},
		{X: 10, Y: 10, Width: 50, Height: 50},
	}

	for _, vb := range candidates {
		once := v.clamp(vb)
		twice := v.clamp(once)
		if once != twice {
			t.Errorf("clamp not idempotent for %+v: %+v != %+v", vb, once, twice)
		}
	}
}

func TestViewPersistsOnDragEnd(t *testing.T) {
	doc := newTestDoc()
	v, store := newTestView(doc)

	g := drag(50, 50, 40, 45)
	v.HandleMove(g)
	v.HandleEnd(g)

	time.Sleep(40 * time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	saved, ok := store.views["view-1"]
	if !ok {
		t.Fatal("view geometry was not persisted")
	}
	if saved.SvgViewBoxStr != "10 5 100 100" {
		t.Errorf("persisted viewBox = %q, want \"10 5 100 100\"", saved.SvgViewBoxStr)
	}
}

func TestViewResizeKeepsAspect(t *testing.T) {
	doc := newTestDoc()
	v, _ := newTestView(doc)

	v.Resize(200, 100)

	vb := doc.ViewBox
	if math.Abs(vb.Width/vb.Height-2) > 1e-9 {
		t.Errorf("aspect after resize = %v, want 2", vb.Width/vb.Height)
	}
}
