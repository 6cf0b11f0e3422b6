package domain

import "github.com/google/uuid"

// TranslationScope bundles a translation with its component, project,
// and language. Handlers resolve it once from URL slugs and pass it
// down.
type TranslationScope struct {
	Project     Project
	Component   Component
	Translation Translation
	Language    Language
}

// ReplaceScope limits search and replace to a translation, component,
// or whole project. The narrowest non-zero field wins.
type ReplaceScope struct {
	ProjectID     uuid.UUID
	ComponentID   uuid.UUID
	TranslationID uuid.UUID
}

// Writable reports whether the given user may modify units in this
// scope at all, regardless of capabilities. A locked component or a
// translation locked by another user rejects every write.
func (s TranslationScope) Writable(userID uuid.UUID) bool {
	if s.Component.Locked {
		return false
	}
	return !s.Translation.IsUserLocked(userID)
}
