// Package policy decides which operations a user may perform. The
// capability table is declarative so every handler consults the same
// source of truth instead of re-deriving role checks per branch.
package policy

import (
	"fmt"

	"github.com/glosshq/gloss/internal/domain"
)

// Capability names one gated operation.
type Capability string

const (
	CapTranslate        Capability = "translate"
	CapSuggest          Capability = "suggest"
	CapAcceptSuggestion Capability = "suggestion.accept"
	CapDeleteSuggestion Capability = "suggestion.delete"
	CapVoteSuggestion   Capability = "suggestion.vote"
	CapAddComment       Capability = "comment.add"
	CapDeleteComment    Capability = "comment.delete"
	CapAutoTranslate    Capability = "autotranslate"
	CapDownloadChanges  Capability = "changes.download"
	CapSearchReplace    Capability = "replace"
)

// table maps capabilities to the roles holding them. Roles absent from
// a row are denied; unknown capabilities are denied for everyone.
var table = map[Capability]map[domain.Role]bool{
	CapTranslate: {
		domain.RoleTranslator: true,
		domain.RoleReviewer:   true,
		domain.RoleAdmin:      true,
	},
	CapSuggest: {
		domain.RoleContributor: true,
		domain.RoleTranslator:  true,
		domain.RoleReviewer:    true,
		domain.RoleAdmin:       true,
	},
	CapAcceptSuggestion: {
		domain.RoleReviewer: true,
		domain.RoleAdmin:    true,
	},
	CapDeleteSuggestion: {
		domain.RoleReviewer: true,
		domain.RoleAdmin:    true,
	},
	CapVoteSuggestion: {
		domain.RoleContributor: true,
		domain.RoleTranslator:  true,
		domain.RoleReviewer:    true,
		domain.RoleAdmin:       true,
	},
	CapAddComment: {
		domain.RoleContributor: true,
		domain.RoleTranslator:  true,
		domain.RoleReviewer:    true,
		domain.RoleAdmin:       true,
	},
	CapDeleteComment: {
		domain.RoleReviewer: true,
		domain.RoleAdmin:    true,
	},
	CapAutoTranslate: {
		domain.RoleReviewer: true,
		domain.RoleAdmin:    true,
	},
	CapDownloadChanges: {
		domain.RoleTranslator: true,
		domain.RoleReviewer:   true,
		domain.RoleAdmin:      true,
	},
	CapSearchReplace: {
		domain.RoleReviewer: true,
		domain.RoleAdmin:    true,
	},
}

// Allow reports whether the user holds the capability.
func Allow(user domain.User, cap Capability) bool {
	row, ok := table[cap]
	if !ok {
		return false
	}
	return row[user.Role]
}

// Check returns a wrapped domain.ErrPermissionDenied when the user
// lacks the capability.
func Check(user domain.User, cap Capability) error {
	if !Allow(user, cap) {
		return fmt.Errorf("%s: %w", cap, domain.ErrPermissionDenied)
	}
	return nil
}

// AllowSuggestionDelete extends CapDeleteSuggestion with ownership: the
// proposer may always withdraw their own suggestion.
func AllowSuggestionDelete(user domain.User, suggestion domain.Suggestion) bool {
	if Allow(user, CapDeleteSuggestion) {
		return true
	}
	return suggestion.UserID != nil && user.IsAuthenticated() && *suggestion.UserID == user.ID
}
