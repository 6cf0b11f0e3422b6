package trans

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/policy"
)

// Replace substitutes search with replacement in every matching target
// within the scope. Units are saved one by one, each with its own
// change entry, so a failure part way keeps the completed work.
func (s *Service) Replace(ctx context.Context, replaceScope domain.ReplaceScope, actor domain.User, search, replacement string) (int, error) {
	if err := policy.Check(actor, policy.CapSearchReplace); err != nil {
		return 0, err
	}
	if search == "" {
		return 0, fmt.Errorf("empty search string: %w", domain.ErrValidation)
	}

	units, err := s.units.MatchingTarget(ctx, replaceScope, search)
	if err != nil {
		return 0, err
	}

	var updated int
	for _, unit := range units {
		replaced := strings.ReplaceAll(unit.Target, search, replacement)
		if replaced == unit.Target {
			continue
		}
		unit.Target = replaced

		change := domain.Change{
			Action:        domain.ActionReplace,
			UnitID:        &unit.ID,
			TranslationID: &unit.TranslationID,
			Target:        unit.Target,
		}
		if actor.IsAuthenticated() {
			change.UserID = &actor.ID
		}
		if err := s.units.Save(ctx, unit, change); err != nil {
			return updated, fmt.Errorf("replace in unit %s: %w", unit.ID, err)
		}
		updated++
	}

	s.log.InfoContext(ctx, "search and replace finished",
		slog.String("search", search),
		slog.Int("updated", updated))
	return updated, nil
}

// AutoTranslate copies translations from another component of the same
// project, matching units by their identity hash. Without overwrite,
// only untranslated and fuzzy units are filled in.
func (s *Service) AutoTranslate(ctx context.Context, scope domain.TranslationScope, actor domain.User, sourceComponentSlug string, overwrite bool) (int, error) {
	if err := policy.Check(actor, policy.CapAutoTranslate); err != nil {
		return 0, err
	}
	if !scope.Writable(actor.ID) {
		return 0, domain.ErrLocked
	}
	if sourceComponentSlug == scope.Component.Slug {
		return 0, fmt.Errorf("source component equals target: %w", domain.ErrValidation)
	}

	source, err := s.catalog.SiblingTranslation(ctx, scope.Project.ID, sourceComponentSlug, scope.Language.Code)
	if err != nil {
		return 0, err
	}
	sourceUnits, err := s.units.ListByTranslation(ctx, source.ID)
	if err != nil {
		return 0, err
	}

	donors := make(map[string]domain.Unit, len(sourceUnits))
	for _, unit := range sourceUnits {
		if unit.Translated() {
			donors[unit.IDHash] = unit
		}
	}
	if len(donors) == 0 {
		return 0, nil
	}

	targets, err := s.units.ListByTranslation(ctx, scope.Translation.ID)
	if err != nil {
		return 0, err
	}

	var updated int
	for _, unit := range targets {
		if !overwrite && unit.Translated() {
			continue
		}
		donor, ok := donors[unit.IDHash]
		if !ok || donor.Target == unit.Target {
			continue
		}

		unit.Target = donor.Target
		unit.Fuzzy = false

		change := domain.Change{
			Action:        domain.ActionAutoTranslate,
			UnitID:        &unit.ID,
			TranslationID: &unit.TranslationID,
			Target:        unit.Target,
		}
		if actor.IsAuthenticated() {
			change.UserID = &actor.ID
		}
		if err := s.units.Save(ctx, unit, change); err != nil {
			return updated, fmt.Errorf("auto-translate unit %s: %w", unit.ID, err)
		}
		s.notifyBackend(ctx, scope, unit)
		updated++
	}

	s.log.InfoContext(ctx, "automatic translation finished",
		slog.String("source_component", sourceComponentSlug),
		slog.Int("updated", updated))
	return updated, nil
}
