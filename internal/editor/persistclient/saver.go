package persistclient

import (
	"sync"
	"time"
)

// ============================================================
// Debounced saver
// ============================================================

// Окно тишины для непрерывных правок: быстрые последовательные
// изменения схлопываются в один вызов с финальной геометрией.
const DefaultDebounce = 400 * time.Millisecond

type pendingSave struct {
	timer *time.Timer
	fn    func()
}

// Saver — fire-and-forget обертка над Store: непрерывные правки
// (drag/scale/rotate) дебаунсятся по ключу объекта, дискретные
// топологические правки уходят сразу.
type Saver struct {
	store Store
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
}

func NewSaver(store Store) *Saver {
	return NewSaverWithDelay(store, DefaultDebounce)
}

func NewSaverWithDelay(store Store, delay time.Duration) *Saver {
	return &Saver{
		store:   store,
		delay:   delay,
		pending: make(map[string]*pendingSave),
	}
}

// IconChanged ставит в очередь сохранение позиции/ориентации иконки.
func (s *Saver) IconChanged(id string, g IconGeometry) {
	s.debounce("icon/"+id, func() {
		logErr("icon", id, s.store.SaveIcon(id, g))
	})
}

// PathChanged ставит в очередь сохранение геометрии пути (перетаскивание точки).
func (s *Saver) PathChanged(id string, g PathGeometry) {
	s.debounce("path/"+id, func() {
		logErr("path", id, s.store.SavePath(id, g))
	})
}

// PathEdited сохраняет путь немедленно: структурные правки дискретны
// и редки, дебаунс им не нужен.
func (s *Saver) PathEdited(id string, g PathGeometry) {
	s.cancel("path/" + id)
	go func() {
		logErr("path", id, s.store.SavePath(id, g))
	}()
}

// ViewChanged ставит в очередь сохранение геометрии окна просмотра.
func (s *Saver) ViewChanged(id string, g ViewGeometry) {
	s.debounce("view/"+id, func() {
		logErr("view", id, s.store.SaveView(id, g))
	})
}

// Flush немедленно выполняет все отложенные сохранения (закрытие сессии).
func (s *Saver) Flush() {
	s.mu.Lock()
	var fns []func()
	for key, p := range s.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(s.pending, key)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Saver) debounce(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
	}

	p := &pendingSave{fn: fn}
	p.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
		fn()
	})
	s.pending[key] = p
}

func (s *Saver) cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
		delete(s.pending, key)
	}
}
