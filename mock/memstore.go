package mock

import (
	"context"
	"sync"

	"github.com/mfilipek/codechat"
)

// Interface compliance check.
var _ codechat.Store = (*MemStore)(nil)

// MemStore is an in-memory codechat.Store that records every save. It stands
// in for the platform key-value store in tests that care about persisted
// content rather than individual store calls.
type MemStore struct {
	mu       sync.Mutex
	sessions []codechat.Session
	saves    int
}

// NewMemStore creates a MemStore seeded with the given sessions.
func NewMemStore(sessions ...codechat.Session) *MemStore {
	return &MemStore{sessions: sessions}
}

// Load returns a copy of the stored sessions.
func (s *MemStore) Load(ctx context.Context) ([]codechat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]codechat.Session(nil), s.sessions...), nil
}

// Save replaces the stored sessions and increments the save counter.
func (s *MemStore) Save(ctx context.Context, sessions []codechat.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]codechat.Session(nil), sessions...)
	s.saves++
	return nil
}

// Sessions returns a copy of the last saved (or seeded) sessions.
func (s *MemStore) Sessions() []codechat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]codechat.Session(nil), s.sessions...)
}

// Saves returns how many times Save has been called.
func (s *MemStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
