package session

import "context"

// Store defines the persistence interface for sessions.
// Implementations must be safe for concurrent use.
type Store[Data any] interface {
	GetByToken(ctx context.Context, token string) (*Session[Data], error)
	Save(ctx context.Context, session *Session[Data]) error
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes expired sessions and returns how many were
	// deleted. Stores with native TTL support may report zero.
	DeleteExpired(ctx context.Context) (int64, error)
}
