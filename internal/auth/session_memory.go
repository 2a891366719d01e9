package auth

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemorySessionStore keeps sessions in process memory. Used when no
// REDIS_ADDR is configured and as a test double. Expired entries are
// dropped on read.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.Session)}
}

func (s *memorySessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, token string) (*domain.Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if session.Expired(time.Now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, false, nil
	}
	return &session, true, nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
