package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeAction identifies what kind of mutation a change entry records.
type ChangeAction int

const (
	ActionNewTranslation ChangeAction = iota
	ActionChangeTranslation
	ActionSuggestion
	ActionAcceptSuggestion
	ActionDeleteSuggestion
	ActionSuggestionVote
	ActionRevert
	ActionReplace
	ActionAutoTranslate
	ActionComment
	ActionDeleteComment
	ActionGlossaryEntry
)

var actionNames = map[ChangeAction]string{
	ActionNewTranslation:    "New translation",
	ActionChangeTranslation: "Translation changed",
	ActionSuggestion:        "Suggestion added",
	ActionAcceptSuggestion:  "Suggestion accepted",
	ActionDeleteSuggestion:  "Suggestion removed",
	ActionSuggestionVote:    "Suggestion voted",
	ActionRevert:            "Translation reverted",
	ActionReplace:           "Search and replace",
	ActionAutoTranslate:     "Automatic translation",
	ActionComment:           "Comment added",
	ActionDeleteComment:     "Comment removed",
	ActionGlossaryEntry:     "Glossary updated",
}

// String returns the English display name of the action. CSV export
// always uses these names regardless of the viewer's locale.
func (a ChangeAction) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown action"
}

// Change is an append-only audit entry describing one mutation to a
// unit or glossary entry. Changes are created by every mutating
// operation, never updated, and never deleted by this service.
type Change struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Action        ChangeAction
	UserID        *uuid.UUID
	UnitID        *uuid.UUID
	TranslationID *uuid.UUID
	GlossaryID    *uuid.UUID
	// Target is the unit target text as of this change.
	Target string
}

// HasContent reports whether the change records an actual translation
// mutation rather than bookkeeping (comments, votes, glossary edits).
func (c Change) HasContent() bool {
	switch c.Action {
	case ActionNewTranslation, ActionChangeTranslation, ActionAcceptSuggestion,
		ActionRevert, ActionReplace, ActionAutoTranslate:
		return true
	}
	return false
}
