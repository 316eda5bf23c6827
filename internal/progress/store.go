// Package progress persists in-progress snapshots and the append-only attempt
// history, keyed by (learner, lecture) identity. The session layer treats
// every store call as best-effort: a failing backend never blocks the quiz.
package progress

import (
	"context"
	"sync"
)

// Snapshot is the single most-recent in-progress record for a lecture. It is
// overwritten on every navigation or answer mutation.
type Snapshot struct {
	CurrentIndex int                    `json:"current"`
	Answers      map[string]interface{} `json:"answers"`
}

// Attempt is one submitted session's scored outcome. History is append-only
// and unbounded.
type Attempt struct {
	Timestamp       int64   `json:"timestamp"`
	Score           float64 `json:"score"`
	PointsTotal     float64 `json:"pointsTotal"`
	Percent         int     `json:"percent"`
	DurationSeconds int64   `json:"durationSeconds"`
}

type Store interface {
	SaveProgress(ctx context.Context, learnerID, lectureID string, snap Snapshot) error
	LoadProgress(ctx context.Context, learnerID, lectureID string) (Snapshot, bool, error)
	ClearProgress(ctx context.Context, learnerID, lectureID string) error
	AppendAttempt(ctx context.Context, learnerID, lectureID string, a Attempt) error
	ListAttempts(ctx context.Context, learnerID, lectureID string) ([]Attempt, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	progress map[string]Snapshot
	attempts map[string][]Attempt
}

// NewMemoryStore keeps progress in process memory. Used in tests and as the
// no-setup default when no database is configured.
func NewMemoryStore() Store {
	return &memoryStore{
		progress: map[string]Snapshot{},
		attempts: map[string][]Attempt{},
	}
}

func key(learnerID, lectureID string) string { return learnerID + "|" + lectureID }

// copySnapshot detaches the answers map so a stored record is a true
// point-in-time snapshot. The SQL and redis stores get this for free by
// serializing; without it the session's live map would keep mutating the
// "persisted" record, and two sessions restoring the same lecture would share
// one unlocked map.
func copySnapshot(snap Snapshot) Snapshot {
	if snap.Answers == nil {
		return snap
	}
	answers := make(map[string]interface{}, len(snap.Answers))
	for k, v := range snap.Answers {
		if ss, ok := v.([]string); ok {
			v = append([]string(nil), ss...)
		}
		answers[k] = v
	}
	snap.Answers = answers
	return snap
}

func (m *memoryStore) SaveProgress(_ context.Context, learnerID, lectureID string, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[key(learnerID, lectureID)] = copySnapshot(snap)
	return nil
}

func (m *memoryStore) LoadProgress(_ context.Context, learnerID, lectureID string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.progress[key(learnerID, lectureID)]
	return copySnapshot(snap), ok, nil
}

func (m *memoryStore) ClearProgress(_ context.Context, learnerID, lectureID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.progress, key(learnerID, lectureID))
	return nil
}

func (m *memoryStore) AppendAttempt(_ context.Context, learnerID, lectureID string, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(learnerID, lectureID)
	m.attempts[k] = append(m.attempts[k], a)
	return nil
}

func (m *memoryStore) ListAttempts(_ context.Context, learnerID, lectureID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.attempts[key(learnerID, lectureID)]
	out := make([]Attempt, len(src))
	copy(out, src)
	return out, nil
}
