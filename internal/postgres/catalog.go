package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// CatalogRepo reads the project, component, translation, and language
// catalog. The catalog is maintained by the import pipeline; this
// service only resolves and locks it.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepo creates a catalog repository.
func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// ResolveTranslation resolves URL slugs into a full translation scope.
func (r *CatalogRepo) ResolveTranslation(ctx context.Context, projectSlug, componentSlug, languageCode string) (domain.TranslationScope, error) {
	const query = `
		SELECT p.id, p.slug, p.name, p.created_at,
			c.id, c.project_id, c.slug, c.name, c.locked, c.created_at,
			t.id, t.component_id, t.language_code, t.commit_message, t.lock_user_id,
			l.code, l.name
		FROM translations t
		JOIN components c ON c.id = t.component_id
		JOIN projects p ON p.id = c.project_id
		JOIN languages l ON l.code = t.language_code
		WHERE p.slug = $1 AND c.slug = $2 AND t.language_code = $3`

	var s domain.TranslationScope
	err := r.pool.QueryRow(ctx, query, projectSlug, componentSlug, languageCode).Scan(
		&s.Project.ID, &s.Project.Slug, &s.Project.Name, &s.Project.CreatedAt,
		&s.Component.ID, &s.Component.ProjectID, &s.Component.Slug, &s.Component.Name,
		&s.Component.Locked, &s.Component.CreatedAt,
		&s.Translation.ID, &s.Translation.ComponentID, &s.Translation.LanguageCode,
		&s.Translation.CommitMessage, &s.Translation.LockUserID,
		&s.Language.Code, &s.Language.Name,
	)
	if err != nil {
		return domain.TranslationScope{}, mapError(err, "translation", uuid.Nil)
	}
	return s, nil
}

// GetScopeByTranslationID resolves a translation id into a full scope.
// Used when walking from changes or units back to their context.
func (r *CatalogRepo) GetScopeByTranslationID(ctx context.Context, id uuid.UUID) (domain.TranslationScope, error) {
	const lookup = `
		SELECT p.slug, c.slug, t.language_code
		FROM translations t
		JOIN components c ON c.id = t.component_id
		JOIN projects p ON p.id = c.project_id
		WHERE t.id = $1`
	var projectSlug, componentSlug, languageCode string
	if err := r.pool.QueryRow(ctx, lookup, id).Scan(&projectSlug, &componentSlug, &languageCode); err != nil {
		return domain.TranslationScope{}, mapError(err, "translation", id)
	}
	return r.ResolveTranslation(ctx, projectSlug, componentSlug, languageCode)
}

// GetProjectBySlug fetches one project.
func (r *CatalogRepo) GetProjectBySlug(ctx context.Context, slug string) (domain.Project, error) {
	const query = `SELECT id, slug, name, created_at FROM projects WHERE slug = $1`
	var p domain.Project
	err := r.pool.QueryRow(ctx, query, slug).Scan(&p.ID, &p.Slug, &p.Name, &p.CreatedAt)
	if err != nil {
		return domain.Project{}, mapError(err, "project", uuid.Nil)
	}
	return p, nil
}

// GetComponentBySlug fetches one component of a project.
func (r *CatalogRepo) GetComponentBySlug(ctx context.Context, projectID uuid.UUID, slug string) (domain.Component, error) {
	const query = `
		SELECT id, project_id, slug, name, locked, created_at
		FROM components WHERE project_id = $1 AND slug = $2`
	var c domain.Component
	err := r.pool.QueryRow(ctx, query, projectID, slug).Scan(
		&c.ID, &c.ProjectID, &c.Slug, &c.Name, &c.Locked, &c.CreatedAt)
	if err != nil {
		return domain.Component{}, mapError(err, "component", projectID)
	}
	return c, nil
}

// GetLanguage fetches one language by code.
func (r *CatalogRepo) GetLanguage(ctx context.Context, code string) (domain.Language, error) {
	const query = `SELECT code, name FROM languages WHERE code = $1`
	var l domain.Language
	if err := r.pool.QueryRow(ctx, query, code).Scan(&l.Code, &l.Name); err != nil {
		return domain.Language{}, mapError(err, "language", uuid.Nil)
	}
	return l, nil
}

// SiblingTranslation finds the same language translation of another
// component in the same project. Backs automatic translation.
func (r *CatalogRepo) SiblingTranslation(ctx context.Context, projectID uuid.UUID, componentSlug, languageCode string) (domain.Translation, error) {
	const query = `
		SELECT t.id, t.component_id, t.language_code, t.commit_message, t.lock_user_id
		FROM translations t
		JOIN components c ON c.id = t.component_id
		WHERE c.project_id = $1 AND c.slug = $2 AND t.language_code = $3`
	var t domain.Translation
	err := r.pool.QueryRow(ctx, query, projectID, componentSlug, languageCode).Scan(
		&t.ID, &t.ComponentID, &t.LanguageCode, &t.CommitMessage, &t.LockUserID)
	if err != nil {
		return domain.Translation{}, mapError(err, "translation", projectID)
	}
	return t, nil
}

// SetCommitMessage stores the pending commit message override for a
// translation.
func (r *CatalogRepo) SetCommitMessage(ctx context.Context, translationID uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE translations SET commit_message = $2 WHERE id = $1`, translationID, message)
	if err != nil {
		return mapError(err, "translation", translationID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("translation %s: %w", translationID, domain.ErrNotFound)
	}
	return nil
}

// SetLock acquires or releases the translation edit lock for a user.
// A nil user releases the lock.
func (r *CatalogRepo) SetLock(ctx context.Context, translationID uuid.UUID, userID *uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE translations SET lock_user_id = $2 WHERE id = $1`, translationID, userID)
	if err != nil {
		return mapError(err, "translation", translationID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("translation %s: %w", translationID, domain.ErrNotFound)
	}
	return nil
}
