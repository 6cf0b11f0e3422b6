// Package trans implements the translation workflow: saving
// translations, suggestions with voting, merge and revert, bulk
// replace, and automatic translation from sibling components.
package trans

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/checks"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/logger"
)

// contributorWindow is how far back Suggest looks for content changes
// by authenticated users before nudging the suggester to translate
// directly.
const contributorWindow = 30 * 24 * time.Hour

// UnitStore is the unit persistence the workflow needs.
type UnitStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error)
	FindByHash(ctx context.Context, translationID uuid.UUID, idHash string) (domain.Unit, error)
	ListByTranslation(ctx context.Context, translationID uuid.UUID) ([]domain.Unit, error)
	MatchingTarget(ctx context.Context, scope domain.ReplaceScope, substring string) ([]domain.Unit, error)
	Save(ctx context.Context, unit domain.Unit, change domain.Change) error
}

// ChangeStore appends and reads the change log.
type ChangeStore interface {
	Insert(ctx context.Context, ch domain.Change) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Change, error)
	HasRecentContributor(ctx context.Context, translationID uuid.UUID, window time.Duration) (bool, error)
}

// SuggestionStore persists suggestions and votes.
type SuggestionStore interface {
	Add(ctx context.Context, s domain.Suggestion) (bool, error)
	GetScoped(ctx context.Context, id, projectID uuid.UUID, languageCode string) (domain.Suggestion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Vote(ctx context.Context, suggestionID, userID uuid.UUID, value int) (int, error)
}

// CommentStore persists comments.
type CommentStore interface {
	Add(ctx context.Context, c domain.Comment) (domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore maintains contribution counters.
type UserStore interface {
	IncrementTranslated(ctx context.Context, id uuid.UUID) error
}

// CatalogStore resolves sibling translations for automatic translation.
type CatalogStore interface {
	SiblingTranslation(ctx context.Context, projectID uuid.UUID, componentSlug, languageCode string) (domain.Translation, error)
}

// FileBackend receives saved units for write-back into translation
// files. NoopBackend is used when no file storage is wired.
type FileBackend interface {
	UnitSaved(ctx context.Context, scope domain.TranslationScope, unit domain.Unit) error
}

// NoopBackend discards write-back notifications.
type NoopBackend struct{}

func (NoopBackend) UnitSaved(context.Context, domain.TranslationScope, domain.Unit) error {
	return nil
}

// Service runs the translation workflow on top of the stores.
type Service struct {
	log         *slog.Logger
	units       UnitStore
	changes     ChangeStore
	suggestions SuggestionStore
	comments    CommentStore
	users       UserStore
	catalog     CatalogStore
	checks      *checks.Registry
	backend     FileBackend
}

// Option configures the service.
type Option func(*Service)

// WithChecks overrides the default quality check registry.
func WithChecks(registry *checks.Registry) Option {
	return func(s *Service) { s.checks = registry }
}

// WithFileBackend sets the write-back target for saved units.
func WithFileBackend(backend FileBackend) Option {
	return func(s *Service) { s.backend = backend }
}

// NewService creates the workflow service.
func NewService(
	log *slog.Logger,
	units UnitStore,
	changes ChangeStore,
	suggestions SuggestionStore,
	comments CommentStore,
	users UserStore,
	catalog CatalogStore,
	opts ...Option,
) *Service {
	s := &Service{
		log:         log,
		units:       units,
		changes:     changes,
		suggestions: suggestions,
		comments:    comments,
		users:       users,
		catalog:     catalog,
		checks:      checks.Default(),
		backend:     NoopBackend{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// creditTranslation bumps the user's counter. Failures are logged, not
// returned: losing a counter tick must not fail a saved translation.
func (s *Service) creditTranslation(ctx context.Context, user domain.User) {
	if !user.IsAuthenticated() {
		return
	}
	if err := s.users.IncrementTranslated(ctx, user.ID); err != nil {
		s.log.WarnContext(ctx, "failed to credit translation",
			logger.UserID(user.ID), logger.Error(err))
	}
}

// notifyBackend forwards a saved unit to the file backend, logging
// failures without failing the save.
func (s *Service) notifyBackend(ctx context.Context, scope domain.TranslationScope, unit domain.Unit) {
	if err := s.backend.UnitSaved(ctx, scope, unit); err != nil {
		s.log.WarnContext(ctx, "file backend rejected unit",
			slog.String("unit_id", unit.ID.String()), logger.Error(err))
	}
}
