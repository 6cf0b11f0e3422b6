package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store for development and tests.
// Sessions do not survive a restart.
type MemoryStore[Data any] struct {
	mu       sync.RWMutex
	sessions map[string]Session[Data]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[Data any]() *MemoryStore[Data] {
	return &MemoryStore[Data]{sessions: make(map[string]Session[Data])}
}

// GetByToken returns the session for the token or ErrNotFound.
func (s *MemoryStore[Data]) GetByToken(_ context.Context, token string) (*Session[Data], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save stores the session keyed by its token.
func (s *MemoryStore[Data]) Save(_ context.Context, sess *Session[Data]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.modified = false
	s.sessions[sess.Token] = stored
	return nil
}

// Delete removes the session for the token. Deleting an absent session
// is not an error.
func (s *MemoryStore[Data]) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// DeleteExpired sweeps all expired sessions.
func (s *MemoryStore[Data]) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var deleted int64
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}
