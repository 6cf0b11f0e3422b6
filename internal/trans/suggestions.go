package trans

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/logger"
	"github.com/glosshq/gloss/internal/policy"
)

// SuggestResult reports the outcome of adding a suggestion.
type SuggestResult struct {
	// Created is false when an identical suggestion already existed.
	Created bool
	// Nudge is set when the translation has no recent contributor, so
	// the suggester may as well translate directly.
	Nudge bool
}

// guardComponent rejects writes into a locked component. User locks do
// not apply here, suggestions stay open while someone holds the
// translation.
func (s *Service) guardComponent(scope domain.TranslationScope) error {
	if scope.Component.Locked {
		return fmt.Errorf("component %s is locked: %w", scope.Component.Slug, domain.ErrLocked)
	}
	return nil
}

// Suggest records a proposed translation for review.
func (s *Service) Suggest(ctx context.Context, scope domain.TranslationScope, actor domain.User, unitID uuid.UUID, target string) (SuggestResult, error) {
	if err := policy.Check(actor, policy.CapSuggest); err != nil {
		return SuggestResult{}, err
	}
	if err := s.guardComponent(scope); err != nil {
		return SuggestResult{}, err
	}
	target = normalizeTarget(target)
	if strings.TrimSpace(target) == "" {
		return SuggestResult{}, fmt.Errorf("empty suggestion: %w", domain.ErrValidation)
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return SuggestResult{}, err
	}
	if unit.TranslationID != scope.Translation.ID {
		return SuggestResult{}, fmt.Errorf("unit %s outside translation %s: %w",
			unit.ID, scope.Translation.ID, domain.ErrNotFound)
	}

	suggestion := domain.Suggestion{
		UnitID:       unit.ID,
		ProjectID:    scope.Project.ID,
		LanguageCode: scope.Language.Code,
		Target:       target,
	}
	if actor.IsAuthenticated() {
		suggestion.UserID = &actor.ID
	}

	created, err := s.suggestions.Add(ctx, suggestion)
	if err != nil {
		return SuggestResult{}, err
	}
	if created {
		if err := s.changes.Insert(ctx, domain.Change{
			Action:        domain.ActionSuggestion,
			UnitID:        &unit.ID,
			TranslationID: &unit.TranslationID,
			UserID:        suggestion.UserID,
			Target:        target,
		}); err != nil {
			return SuggestResult{}, err
		}
	}

	active, err := s.changes.HasRecentContributor(ctx, scope.Translation.ID, contributorWindow)
	if err != nil {
		s.log.WarnContext(ctx, "failed to look up recent contributors", logger.Error(err))
		active = true
	}

	return SuggestResult{Created: created, Nudge: !active && policy.Allow(actor, policy.CapTranslate)}, nil
}

// AcceptSuggestion saves the suggested target onto its unit and
// removes the suggestion.
func (s *Service) AcceptSuggestion(ctx context.Context, scope domain.TranslationScope, actor domain.User, suggestionID uuid.UUID) (domain.Unit, error) {
	if err := policy.Check(actor, policy.CapAcceptSuggestion); err != nil {
		return domain.Unit{}, err
	}

	suggestion, err := s.suggestions.GetScoped(ctx, suggestionID, scope.Project.ID, scope.Language.Code)
	if err != nil {
		return domain.Unit{}, err
	}
	unit, err := s.units.GetByID(ctx, suggestion.UnitID)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.guardWrite(scope, actor, unit); err != nil {
		return domain.Unit{}, err
	}

	unit.Target = suggestion.Target
	unit.Fuzzy = false
	if err := s.saveUnit(ctx, scope, actor, unit, domain.ActionAcceptSuggestion); err != nil {
		return domain.Unit{}, err
	}
	if err := s.suggestions.Delete(ctx, suggestion.ID); err != nil {
		return domain.Unit{}, err
	}
	s.creditTranslation(ctx, actor)

	s.log.InfoContext(ctx, "suggestion accepted",
		slog.String("suggestion_id", suggestion.ID.String()),
		slog.String("unit_id", unit.ID.String()))
	return unit, nil
}

// DeleteSuggestion discards a pending suggestion. Proposers may always
// withdraw their own.
func (s *Service) DeleteSuggestion(ctx context.Context, scope domain.TranslationScope, actor domain.User, suggestionID uuid.UUID) error {
	if err := s.guardComponent(scope); err != nil {
		return err
	}
	suggestion, err := s.suggestions.GetScoped(ctx, suggestionID, scope.Project.ID, scope.Language.Code)
	if err != nil {
		return err
	}
	if !policy.AllowSuggestionDelete(actor, suggestion) {
		return fmt.Errorf("delete suggestion %s: %w", suggestion.ID, domain.ErrPermissionDenied)
	}

	if err := s.suggestions.Delete(ctx, suggestion.ID); err != nil {
		return err
	}
	change := domain.Change{
		Action:        domain.ActionDeleteSuggestion,
		UnitID:        &suggestion.UnitID,
		TranslationID: &scope.Translation.ID,
		Target:        suggestion.Target,
	}
	if actor.IsAuthenticated() {
		change.UserID = &actor.ID
	}
	return s.changes.Insert(ctx, change)
}

// VoteSuggestion records an up or down vote and returns the new tally.
// A repeated vote by the same user replaces the previous one.
func (s *Service) VoteSuggestion(ctx context.Context, scope domain.TranslationScope, actor domain.User, suggestionID uuid.UUID, up bool) (int, error) {
	if err := policy.Check(actor, policy.CapVoteSuggestion); err != nil {
		return 0, err
	}
	if !actor.IsAuthenticated() {
		return 0, fmt.Errorf("anonymous vote: %w", domain.ErrPermissionDenied)
	}
	if err := s.guardComponent(scope); err != nil {
		return 0, err
	}

	suggestion, err := s.suggestions.GetScoped(ctx, suggestionID, scope.Project.ID, scope.Language.Code)
	if err != nil {
		return 0, err
	}

	value := 1
	if !up {
		value = -1
	}
	votes, err := s.suggestions.Vote(ctx, suggestion.ID, actor.ID, value)
	if err != nil {
		return 0, err
	}
	if err := s.changes.Insert(ctx, domain.Change{
		Action:        domain.ActionSuggestionVote,
		UnitID:        &suggestion.UnitID,
		TranslationID: &scope.Translation.ID,
		UserID:        &actor.ID,
		Target:        suggestion.Target,
	}); err != nil {
		return 0, err
	}
	return votes, nil
}

// AddComment attaches a comment to the unit's source string. Global
// comments show up in every language, scoped ones only in this one.
func (s *Service) AddComment(ctx context.Context, scope domain.TranslationScope, actor domain.User, unit domain.Unit, text string, global bool) (domain.Comment, error) {
	if err := policy.Check(actor, policy.CapAddComment); err != nil {
		return domain.Comment{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, fmt.Errorf("empty comment: %w", domain.ErrValidation)
	}

	comment := domain.Comment{
		ProjectID: scope.Project.ID,
		IDHash:    unit.IDHash,
		UserID:    actor.ID,
		Text:      text,
	}
	if !global {
		code := scope.Language.Code
		comment.LanguageCode = &code
	}

	comment, err := s.comments.Add(ctx, comment)
	if err != nil {
		return domain.Comment{}, err
	}
	change := domain.Change{
		Action:        domain.ActionComment,
		UnitID:        &unit.ID,
		TranslationID: &unit.TranslationID,
	}
	if actor.IsAuthenticated() {
		change.UserID = &actor.ID
	}
	if err := s.changes.Insert(ctx, change); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// DeleteComment removes a comment. The translation names where the
// deletion is logged; nil when no unit carries the string anymore, in
// which case no change entry is written.
func (s *Service) DeleteComment(ctx context.Context, actor domain.User, commentID uuid.UUID, translationID *uuid.UUID) (domain.Comment, error) {
	if err := policy.Check(actor, policy.CapDeleteComment); err != nil {
		return domain.Comment{}, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return domain.Comment{}, err
	}
	if translationID == nil {
		return comment, nil
	}
	return comment, s.changes.Insert(ctx, domain.Change{
		Action:        domain.ActionDeleteComment,
		TranslationID: translationID,
		UserID:        &actor.ID,
	})
}
