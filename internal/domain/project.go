package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project groups components that are translated together.
type Project struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
}

// Component is a single translatable resource within a project,
// typically one translation file template in a repository.
type Component struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Slug      string
	Name      string
	Locked    bool
	CreatedAt time.Time
}

// Translation is the state of one component in one target language.
// Units belong to exactly one translation.
type Translation struct {
	ID            uuid.UUID
	ComponentID   uuid.UUID
	LanguageCode  string
	CommitMessage string
	// LockUserID holds the user currently holding the edit lock, if any.
	LockUserID *uuid.UUID
}

// IsUserLocked reports whether the translation is locked by someone
// other than the given user.
func (t Translation) IsUserLocked(userID uuid.UUID) bool {
	return t.LockUserID != nil && *t.LockUserID != userID
}

// Language is a target language known to the service.
type Language struct {
	Code string
	Name string
}
