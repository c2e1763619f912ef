package encounter

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/emberfall/internal/game/character"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
)

// ErrEncounterNotFound is returned when no live session has the requested ID.
var ErrEncounterNotFound = errors.New("encounter not found")

// Manager tracks live sessions keyed by encounter ID.
// All methods are safe for concurrent use.
type Manager struct {
	ctrl *Controller

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates an empty Manager.
//
// Precondition: ctrl must be non-nil.
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager(ctrl *Controller) *Manager {
	return &Manager{ctrl: ctrl, sessions: make(map[uuid.UUID]*Session)}
}

// Start begins a new encounter and registers its session.
//
// Postcondition: on success the session is retrievable by its encounter ID.
func (m *Manager) Start(player character.Player, enemies []npc.Enemy) (*Session, error) {
	enc, err := m.ctrl.Begin(player, enemies)
	if err != nil {
		return nil, err
	}
	s := NewSession(m.ctrl, enc)
	m.mu.Lock()
	m.sessions[enc.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session for id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrEncounterNotFound
	}
	return s, nil
}

// End removes the session for id and returns its final encounter.
func (m *Manager) End(id uuid.UUID) (Encounter, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return Encounter{}, ErrEncounterNotFound
	}
	return s.Snapshot(), nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
