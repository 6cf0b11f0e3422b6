package domain

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is a proposed alternative target text for a unit, awaiting
// review. Suggestions are scoped to project and language so that a
// suggestion id from another scope never resolves.
type Suggestion struct {
	ID           uuid.UUID
	UnitID       uuid.UUID
	ProjectID    uuid.UUID
	LanguageCode string
	UserID       *uuid.UUID
	Target       string
	Votes        int
	CreatedAt    time.Time
}

// SuggestionVote records a single user's vote on a suggestion.
// Value is +1 or -1; a repeated vote by the same user replaces the
// previous one.
type SuggestionVote struct {
	SuggestionID uuid.UUID
	UserID       uuid.UUID
	Value        int
}
