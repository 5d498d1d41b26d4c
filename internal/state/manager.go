package state

import (
	"sync"
)

type DialogState string

const (
	StateIdle             DialogState = "idle"
	StateAwaitingCategory DialogState = "awaiting_category"
	StateAwaitingAmount   DialogState = "awaiting_amount"
)

// Session - живущее в памяти состояние диалога одного пользователя.
// Теряется при перезапуске процесса: недовведённая трата просто
// пропадает, в хранилище она не попадает.
type Session struct {
	UserID           int64
	State            DialogState
	SelectedCategory string
}

// Manager хранит сессии по идентификатору пользователя. На пользователя
// не бывает больше одной сессии: повторный Begin перезаписывает старую.
type Manager struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Get возвращает копию сессии пользователя. Для пользователя без
// сессии возвращается сессия в состоянии StateIdle.
func (m *Manager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, exists := m.sessions[userID]; exists {
		return *session
	}
	return Session{UserID: userID, State: StateIdle}
}

// Begin начинает новый захват траты, перезаписывая существующую сессию.
func (m *Manager) Begin(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[userID] = &Session{
		UserID: userID,
		State:  StateAwaitingCategory,
	}
}

// SetCategory запоминает выбранную категорию и переводит сессию в
// ожидание суммы.
func (m *Manager) SetCategory(userID int64, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[userID]; exists {
		session.SelectedCategory = category
		session.State = StateAwaitingAmount
	}
}

// Clear уничтожает сессию пользователя.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}
