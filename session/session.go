package session

import (
	"sync"
)

// Key scopes a session to one user in one chat.
type Key struct {
	ChatID int64
	UserID int64
}

type Session struct {
	State string
	Data  map[string]string
}

type Manager struct {
	sessions map[Key]*Session
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[Key]*Session),
	}
}

// Get returns the session for k, creating an empty one if needed.
func (m *Manager) Get(k Key) *Session {
	m.mu.RLock()
	s, ok := m.sessions[k]
	m.mu.RUnlock()

	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok = m.sessions[k]; ok {
		return s
	}
	s = &Session{
		Data: make(map[string]string),
	}
	m.sessions[k] = s
	return s
}

func (m *Manager) Lookup(k Key) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[k]
	return s, ok
}

func (m *Manager) Reset(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, k)
}
