package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// SuggestionRepo persists pending suggestions and their votes.
type SuggestionRepo struct {
	pool *pgxpool.Pool
}

// NewSuggestionRepo creates a suggestion repository.
func NewSuggestionRepo(pool *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{pool: pool}
}

const suggestionColumns = `s.id, s.unit_id, s.project_id, s.language_code, s.user_id, s.target,
	COALESCE((SELECT SUM(v.value) FROM suggestion_votes v WHERE v.suggestion_id = s.id), 0),
	s.created_at`

func scanSuggestion(row pgx.Row) (domain.Suggestion, error) {
	var s domain.Suggestion
	err := row.Scan(&s.ID, &s.UnitID, &s.ProjectID, &s.LanguageCode,
		&s.UserID, &s.Target, &s.Votes, &s.CreatedAt)
	return s, err
}

// Add stores a new suggestion and returns whether it was created. An
// identical pending suggestion on the same unit makes this a no-op.
func (r *SuggestionRepo) Add(ctx context.Context, s domain.Suggestion) (bool, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	const query = `
		INSERT INTO suggestions (id, unit_id, project_id, language_code, user_id, target)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (unit_id, target) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query, s.ID, s.UnitID, s.ProjectID, s.LanguageCode, s.UserID, s.Target)
	if err != nil {
		return false, mapError(err, "suggestion", s.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// GetScoped fetches a suggestion only if it belongs to the given
// project and language. Ids from other scopes resolve to not found.
func (r *SuggestionRepo) GetScoped(ctx context.Context, id, projectID uuid.UUID, languageCode string) (domain.Suggestion, error) {
	const query = `SELECT ` + suggestionColumns + `
		FROM suggestions s
		WHERE s.id = $1 AND s.project_id = $2 AND s.language_code = $3`
	s, err := scanSuggestion(r.pool.QueryRow(ctx, query, id, projectID, languageCode))
	if err != nil {
		return domain.Suggestion{}, mapError(err, "suggestion", id)
	}
	return s, nil
}

// ListByUnit returns pending suggestions for a unit, oldest first.
func (r *SuggestionRepo) ListByUnit(ctx context.Context, unitID uuid.UUID) ([]domain.Suggestion, error) {
	const query = `SELECT ` + suggestionColumns + `
		FROM suggestions s
		WHERE s.unit_id = $1
		ORDER BY s.created_at`
	rows, err := r.pool.Query(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []domain.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// Delete removes a suggestion. Votes go with it.
func (r *SuggestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suggestions WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "suggestion", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Vote records a user's vote on a suggestion, replacing any previous
// vote by the same user, and returns the new tally.
func (r *SuggestionRepo) Vote(ctx context.Context, suggestionID, userID uuid.UUID, value int) (int, error) {
	const upsert = `
		INSERT INTO suggestion_votes (suggestion_id, user_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (suggestion_id, user_id) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.pool.Exec(ctx, upsert, suggestionID, userID, int16(value)); err != nil {
		return 0, mapError(err, "suggestion vote", suggestionID)
	}

	const tally = `SELECT COALESCE(SUM(value), 0) FROM suggestion_votes WHERE suggestion_id = $1`
	var votes int
	if err := r.pool.QueryRow(ctx, tally, suggestionID).Scan(&votes); err != nil {
		return 0, fmt.Errorf("suggestion %s tally: %w", suggestionID, err)
	}
	return votes, nil
}
