package service

import (
	"sync"

	"github.com/google/uuid"

	"plan-editor/internal/editor/bus"
	"plan-editor/internal/editor/controller"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// ============================================================
// Session Manager
// ============================================================

// SessionManager раздает и хранит активные сессии редактирования.
// У каждой сессии своя шина событий: координация выделения не
// пересекает границы сессий.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*controller.Session

	store persistclient.Store
}

func NewSessionManager(store persistclient.Store) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*controller.Session),
		store:    store,
	}
}

// Open создает сессию для сцены и возвращает ее.
func (m *SessionManager) Open(doc *scene.Document) *controller.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	s := controller.NewSession(id, doc, bus.New(), m.store)
	m.sessions[id] = s
	return s
}

func (m *SessionManager) Get(id string) (*controller.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Close завершает сессию и убирает ее из реестра.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// Count — число активных сессий (для health ready).
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
