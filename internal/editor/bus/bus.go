package bus

import "sync"

// ============================================================
// Selection bus
// ============================================================

// EventSelection — какой-то модуль забрал владение выделением.
const EventSelection = "selection"

// Event — полезная нагрузка шины: имя модуля-владельца и id цели.
type Event struct {
	ModuleName string `json:"moduleName"`
	TargetID   string `json:"targetId"`
}

// Bus — внутрипроцессный publish/subscribe. Внедряется в сессию
// параметром конструктора, чтобы сессии были независимы и тестируемы.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]func(Event)
}

func New() *Bus {
	return &Bus{subs: make(map[string][]func(Event))}
}

// Subscribe регистрирует обработчик события.
func (b *Bus) Subscribe(event string, fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], fn)
}

// Emit синхронно рассылает событие всем подписчикам.
func (b *Bus) Emit(event string, e Event) {
	b.mu.Lock()
	handlers := append([]func(Event){}, b.subs[event]...)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}
