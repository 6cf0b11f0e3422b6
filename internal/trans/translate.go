package trans

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/autofix"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/policy"
)

// TranslateResult reports what happened to a saved translation.
type TranslateResult struct {
	Unit domain.Unit
	// AppliedFixes names the automatic fixups applied to the input.
	AppliedFixes []string
	// FailingChecks names the quality checks the saved unit now fails.
	FailingChecks []string
	// Stay asks the caller not to advance to the next unit, because
	// new check failures need the translator's attention.
	Stay bool
}

// guardWrite verifies the actor can modify units in the scope and that
// the unit actually belongs to it.
func (s *Service) guardWrite(scope domain.TranslationScope, actor domain.User, unit domain.Unit) error {
	if !scope.Writable(actor.ID) {
		return domain.ErrLocked
	}
	if unit.TranslationID != scope.Translation.ID {
		return fmt.Errorf("unit %s outside translation %s: %w",
			unit.ID, scope.Translation.ID, domain.ErrNotFound)
	}
	return nil
}

// Translate saves a new target for the unit. The input runs through
// automatic fixups first; quality checks run after the save and decide
// whether the editor should stay on this unit.
func (s *Service) Translate(ctx context.Context, scope domain.TranslationScope, actor domain.User, unitID uuid.UUID, target string, fuzzy bool) (TranslateResult, error) {
	if err := policy.Check(actor, policy.CapTranslate); err != nil {
		return TranslateResult{}, err
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return TranslateResult{}, err
	}
	if err := s.guardWrite(scope, actor, unit); err != nil {
		return TranslateResult{}, err
	}

	fixed, applied := autofix.Apply(unit.Source, normalizeTarget(target))

	action := domain.ActionChangeTranslation
	if unit.Target == "" && fixed != "" {
		action = domain.ActionNewTranslation
	}

	failedBefore := s.checks.Run(unit)

	unit.Target = fixed
	unit.Fuzzy = fuzzy
	if err := s.saveUnit(ctx, scope, actor, unit, action); err != nil {
		return TranslateResult{}, err
	}
	s.creditTranslation(ctx, actor)

	failedAfter := s.checks.Run(unit)
	fresh := newFailures(failedBefore, failedAfter)

	s.log.InfoContext(ctx, "translation saved",
		slog.String("unit_id", unit.ID.String()),
		slog.String("action", action.String()),
		slog.Int("failing_checks", len(failedAfter)))

	return TranslateResult{
		Unit:          unit,
		AppliedFixes:  applied,
		FailingChecks: failedAfter,
		Stay:          len(fresh) > 0 && !fuzzy,
	}, nil
}

// Merge copies the translation from another unit with the same source
// string into this one.
func (s *Service) Merge(ctx context.Context, scope domain.TranslationScope, actor domain.User, unitID, mergeUnitID uuid.UUID) (domain.Unit, error) {
	if err := policy.Check(actor, policy.CapTranslate); err != nil {
		return domain.Unit{}, err
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.guardWrite(scope, actor, unit); err != nil {
		return domain.Unit{}, err
	}

	other, err := s.units.GetByID(ctx, mergeUnitID)
	if err != nil {
		return domain.Unit{}, err
	}
	if other.IDHash != unit.IDHash {
		return domain.Unit{}, fmt.Errorf("merge source %s: %w", other.ID, domain.ErrHashMismatch)
	}

	unit.Target = other.Target
	unit.Fuzzy = other.Fuzzy
	if err := s.saveUnit(ctx, scope, actor, unit, domain.ActionChangeTranslation); err != nil {
		return domain.Unit{}, err
	}
	s.creditTranslation(ctx, actor)
	return unit, nil
}

// Revert restores the unit's target from an earlier change entry.
// Reverting to an empty target is refused; untranslating needs an
// explicit empty save.
func (s *Service) Revert(ctx context.Context, scope domain.TranslationScope, actor domain.User, unitID, changeID uuid.UUID) (domain.Unit, error) {
	if err := policy.Check(actor, policy.CapTranslate); err != nil {
		return domain.Unit{}, err
	}

	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := s.guardWrite(scope, actor, unit); err != nil {
		return domain.Unit{}, err
	}

	ch, err := s.changes.GetByID(ctx, changeID)
	if err != nil {
		return domain.Unit{}, err
	}
	if ch.UnitID == nil || *ch.UnitID != unit.ID {
		return domain.Unit{}, fmt.Errorf("change %s does not belong to unit %s: %w",
			changeID, unit.ID, domain.ErrHashMismatch)
	}
	if ch.Target == "" {
		return domain.Unit{}, fmt.Errorf("cannot revert to empty translation: %w", domain.ErrValidation)
	}

	unit.Target = ch.Target
	unit.Fuzzy = false
	if err := s.saveUnit(ctx, scope, actor, unit, domain.ActionRevert); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

// saveUnit persists the unit with its change entry and notifies the
// file backend.
func (s *Service) saveUnit(ctx context.Context, scope domain.TranslationScope, actor domain.User, unit domain.Unit, action domain.ChangeAction) error {
	change := domain.Change{
		Action:        action,
		UnitID:        &unit.ID,
		TranslationID: &unit.TranslationID,
		Target:        unit.Target,
	}
	if actor.IsAuthenticated() {
		change.UserID = &actor.ID
	}
	if err := s.units.Save(ctx, unit, change); err != nil {
		return err
	}
	s.notifyBackend(ctx, scope, unit)
	return nil
}

// newFailures returns check ids present in after but not in before.
func newFailures(before, after []string) []string {
	var fresh []string
	for _, id := range after {
		if !slices.Contains(before, id) {
			fresh = append(fresh, id)
		}
	}
	return fresh
}

// normalizeTarget trims the surrounding whitespace browsers add to
// textarea posts while keeping intentional inner whitespace.
func normalizeTarget(target string) string {
	return strings.Trim(target, "\r\n")
}
