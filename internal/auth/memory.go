package auth

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	userID    int
	expiresAt time.Time
}

// MemorySessionStore is the single-process fallback used in development
// and tests when no Redis address is configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
	}
}

func (s *MemorySessionStore) Create(_ context.Context, userID int, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := newToken()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	return token, nil
}

func (s *MemorySessionStore) Resolve(_ context.Context, token string) (int, error) {
	s.mu.RLock()
	sess, exists := s.sessions[token]
	s.mu.RUnlock()

	if !exists {
		return 0, ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return 0, ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *MemorySessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
