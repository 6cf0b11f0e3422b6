package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is attached to a source string (by identity hash) within a
// project. A nil LanguageCode marks a source-string comment visible in
// every language; otherwise the comment applies to one translation.
type Comment struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	IDHash       string
	LanguageCode *string
	UserID       uuid.UUID
	Text         string
	CreatedAt    time.Time
}

// Global reports whether the comment applies to all languages.
func (c Comment) Global() bool {
	return c.LanguageCode == nil
}

// GlossaryEntry is a project glossary term for one language. Glossary
// mutations show up in the change log behind the glossary filter.
type GlossaryEntry struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	LanguageCode string
	Source       string
	Target       string
}
