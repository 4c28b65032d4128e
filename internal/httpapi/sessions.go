package httpapi

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/ayatsuji/kotoba-run/internal/run"
)

// ErrSessionNotFound is returned for unknown run ids.
var ErrSessionNotFound = errors.New("httpapi: session not found")

// session pairs a run machine with its end-reporting state. The reported
// flag guarantees the meta store receives each run's deltas exactly once,
// however many times a client retries the end call.
type session struct {
	ID      string
	Machine *run.Machine
	Seed    int64

	mu       sync.Mutex
	reported bool
}

// markReported flips the reported flag, returning false if it was already set.
func (s *session) markReported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reported {
		return false
	}
	s.reported = true
	return true
}

// Sessions is an in-memory registry of active run sessions, keyed by id.
// Concurrency-safe via RWMutex; state is lost on process restart, which is
// acceptable for in-run state (meta progression lives in SQLite).
type Sessions struct {
	mu   sync.RWMutex
	runs map[string]*session
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{runs: make(map[string]*session)}
}

// Add registers a machine under a fresh id. The seed is the one the run's
// generator was built with, reused for presentation-side shuffles.
func (s *Sessions) Add(m *run.Machine, seed int64) *session {
	sess := &session{
		ID:      uuid.NewString(),
		Machine: m,
		Seed:    seed,
	}
	s.mu.Lock()
	s.runs[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get looks up a session by id.
func (s *Sessions) Get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.runs[id]; ok {
		return sess, nil
	}
	return nil, ErrSessionNotFound
}

// Remove drops a session from the registry.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	delete(s.runs, id)
	s.mu.Unlock()
}

// Len returns the number of registered sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
