package wizard

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
)

var ErrSessionNotFound = errors.New("form session not found")

// Manager holds the open wizard sessions, keyed by a random UUID. Sessions
// live until deleted or the process exits.
type Manager struct {
	metrics *metrics.Metrics

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Wizard
}

func NewManager(m *metrics.Metrics) *Manager {
	return &Manager{
		metrics:  m,
		sessions: make(map[uuid.UUID]*Wizard),
	}
}

func (m *Manager) Create(kind Kind) (uuid.UUID, *Wizard, error) {
	def, err := Lookup(kind)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id := uuid.New()
	w := New(def, m.metrics)

	m.mu.Lock()
	m.sessions[id] = w
	m.mu.Unlock()
	return id, w, nil
}

// Get returns the session id of the given kind.
func (m *Manager) Get(kind Kind, id string) (*Wizard, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	m.mu.RLock()
	w, ok := m.sessions[key]
	m.mu.RUnlock()
	if !ok || w.Kind() != kind {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

func (m *Manager) Delete(id string) {
	key, err := uuid.Parse(id)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
