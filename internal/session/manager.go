package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown or closed session id.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live sessions behind the HTTP surface. Access to each
// session is serialized; the engine itself is single-goroutine per session.
// A learner has at most one open session: opening a new quiz tears down the
// previous session's transient render state (persisted state is keyed by
// lecture identity and unaffected).
type Manager struct {
	mu        sync.Mutex
	cfg       Config
	sessions  map[string]*managed
	byLearner map[string]string
}

type managed struct {
	mu sync.Mutex
	s  *Session
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:       cfg,
		sessions:  map[string]*managed{},
		byLearner: map[string]string{},
	}
}

// Open starts a session for ref and returns its id and first view.
func (m *Manager) Open(ctx context.Context, ref, learnerID string) (string, *Session, error) {
	s, err := Open(ctx, ref, learnerID, m.cfg)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	m.mu.Lock()
	if prev, ok := m.byLearner[learnerID]; ok {
		delete(m.sessions, prev)
	}
	m.sessions[id] = &managed{s: s}
	m.byLearner[learnerID] = id
	m.mu.Unlock()

	return id, s, nil
}

// With runs fn with exclusive access to the named session.
func (m *Manager) With(id string, fn func(*Session) error) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return fn(ms.s)
}

// Close tears down the render state only. Answer mutations and persisted
// progress already applied are untouched.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	if cur, ok := m.byLearner[ms.s.learnerID]; ok && cur == id {
		delete(m.byLearner, ms.s.learnerID)
	}
	return nil
}
