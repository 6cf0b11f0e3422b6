// Package session provides browser sessions with a generic data
// payload, a pluggable store, and cookie-based transport. The search
// cache and flash messages live inside the session data.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session represents a browser session with generic data storage.
// The Data type parameter carries application state such as cached
// search results and pending flash messages.
type Session[Data any] struct {
	// ID is the stable unique session identifier.
	ID uuid.UUID

	// Token is the cryptographically secure session token used as the
	// cookie value (32 bytes, base64url).
	Token string

	// UserID identifies the authenticated user (uuid.Nil for guests).
	UserID uuid.UUID

	// Data holds application-specific session state.
	Data Data

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// modified tracks whether the session needs saving.
	modified bool
}

// New creates an anonymous session with a generated token and ID,
// marked as modified and ready to save.
func New[Data any](ttl time.Duration) (Session[Data], error) {
	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session[Data]{
		ID:        uuid.New(),
		Token:     token,
		UserID:    uuid.Nil,
		Data:      *new(Data),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
		modified:  true,
	}, nil
}

// Authenticate binds the session to a user and rotates the token so a
// pre-authentication token can never be replayed.
func (s *Session[Data]) Authenticate(userID uuid.UUID) error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.UserID = userID
	s.UpdatedAt = time.Now()
	s.modified = true
	return nil
}

// SetData replaces the session payload.
func (s *Session[Data]) SetData(data Data) {
	s.Data = data
	s.UpdatedAt = time.Now()
	s.modified = true
}

// Touch extends the expiration if the touch interval has elapsed,
// keeping store writes off the hot path.
func (s *Session[Data]) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		now := time.Now()
		s.ExpiresAt = now.Add(ttl)
		s.UpdatedAt = now
		s.modified = true
	}
}

// IsAuthenticated reports whether the session belongs to a user.
func (s Session[Data]) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.Token != ""
}

// IsExpired reports whether the session has expired.
func (s Session[Data]) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsModified reports whether the session has unsaved changes.
func (s Session[Data]) IsModified() bool {
	return s.modified
}

// generateToken creates a 256-bit random token encoded as base64url
// without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
