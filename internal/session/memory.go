package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	running  map[string]bool
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory returns an in-process store. Sessions idle longer than ttl are
// evicted on the next access and swept on Create; a zero ttl keeps them
// until Delete. A session holding a run never expires.
func NewMemory(ttl time.Duration) Store {
	return &memoryStore{
		sessions: make(map[string]domain.Session),
		running:  make(map[string]bool),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *memoryStore) Create(_ context.Context) (domain.Session, error) {
	now := m.now()
	s := domain.Session{
		ID:        uuid.NewString(),
		Stage:     domain.StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sweepLocked()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.lookupLocked(id)
	if !ok {
		return domain.Session{}, apperr.ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *memoryStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookupLocked(s.ID); !ok {
		return apperr.ErrSessionNotFound
	}
	s.UpdatedAt = m.now()
	m.sessions[s.ID] = copySession(s)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookupLocked(id); !ok {
		return apperr.ErrSessionNotFound
	}
	delete(m.sessions, id)
	delete(m.running, id)
	return nil
}

func (m *memoryStore) AcquireRun(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookupLocked(id); !ok {
		return false, apperr.ErrSessionNotFound
	}
	if m.running[id] {
		return false, nil
	}
	m.running[id] = true
	return true, nil
}

func (m *memoryStore) ReleaseRun(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.running, id)
	m.mu.Unlock()
	return nil
}

// lookupLocked returns the session and evicts it when expired. m.mu must be held.
func (m *memoryStore) lookupLocked(id string) (domain.Session, bool) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	if m.expired(s) {
		delete(m.sessions, id)
		return domain.Session{}, false
	}
	return s, true
}

func (m *memoryStore) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
		}
	}
}

func (m *memoryStore) expired(s domain.Session) bool {
	return m.ttl > 0 && !m.running[s.ID] && m.now().Sub(s.UpdatedAt) > m.ttl
}

func copySession(s domain.Session) domain.Session {
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}
