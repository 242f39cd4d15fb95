package persistclient

import (
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu    sync.Mutex
	icons []IconGeometry
	paths []PathGeometry
	views []ViewGeometry
}

func (f *fakeStore) SaveIcon(id string, g IconGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.icons = append(f.icons, g)
	return nil
}

func (f *fakeStore) SavePath(id string, g PathGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, g)
	return nil
}

func (f *fakeStore) SaveView(id string, g ViewGeometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, g)
	return nil
}

func (f *fakeStore) iconCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.icons)
}

func TestDebounceCollapsesRapidEdits(t *testing.T) {
	store := &fakeStore{}
	s := NewSaverWithDelay(store, 20*time.Millisecond)

	// A burst of edits within the quiet window must produce one call
	// carrying only the final geometry.
	for i := 1; i <= 5; i++ {
		s.IconChanged("icon-1", IconGeometry{SvgX: float64(i * 10)})
	}

	time.Sleep(80 * time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.icons) != 1 {
		t.Fatalf("icon saves = %d, want 1", len(store.icons))
	}
	if store.icons[0].SvgX != 50 {
		t.Errorf("saved geometry = %+v, want the final edit", store.icons[0])
	}
}

func TestDebounceKeysAreIndependent(t *testing.T) {
	store := &fakeStore{}
	s := NewSaverWithDelay(store, 20*time.Millisecond)

	s.IconChanged("icon-1", IconGeometry{SvgX: 1})
	s.IconChanged("icon-2", IconGeometry{SvgX: 2})

	time.Sleep(80 * time.Millisecond)

	if got := store.iconCount(); got != 2 {
		t.Fatalf("icon saves = %d, want 2", got)
	}
}

func TestPathEditedSavesImmediately(t *testing.T) {
	store := &fakeStore{}
	s := NewSaverWithDelay(store, time.Hour) // debounce window never fires

	// A pending drag save is superseded by the structural edit.
	s.PathChanged("p1", PathGeometry{SvgPath: "M 0,0 L 1,0"})
	s.PathEdited("p1", PathGeometry{SvgPath: "M 0,0 L 2,0"})

	time.Sleep(50 * time.Millisecond)

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.paths) != 1 {
		t.Fatalf("path saves = %d, want 1", len(store.paths))
	}
	if store.paths[0].SvgPath != "M 0,0 L 2,0" {
		t.Errorf("saved path = %q", store.paths[0].SvgPath)
	}
}

func TestFlushRunsPendingSaves(t *testing.T) {
	store := &fakeStore{}
	s := NewSaverWithDelay(store, time.Hour)

	s.ViewChanged("view-1", ViewGeometry{SvgViewBoxStr: "0 0 10 10"})
	s.Flush()

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.views) != 1 {
		t.Fatalf("view saves = %d, want 1", len(store.views))
	}
	if store.views[0].SvgViewBoxStr != "0 0 10 10" {
		t.Errorf("saved view = %+v", store.views[0])
	}
}
