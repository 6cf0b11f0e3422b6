package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// CommentRepo persists source-string and translation comments.
type CommentRepo struct {
	pool *pgxpool.Pool
}

// NewCommentRepo creates a comment repository.
func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `id, project_id, id_hash, language_code, user_id, body, created_at`

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.ProjectID, &c.IDHash, &c.LanguageCode,
		&c.UserID, &c.Text, &c.CreatedAt)
	return c, err
}

// Add stores a new comment.
func (r *CommentRepo) Add(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	const query = `
		INSERT INTO comments (id, project_id, id_hash, language_code, user_id, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.pool.QueryRow(ctx, query, c.ID, c.ProjectID, c.IDHash,
		c.LanguageCode, c.UserID, c.Text).Scan(&c.CreatedAt)
	if err != nil {
		return domain.Comment{}, mapError(err, "comment", c.ID)
	}
	return c, nil
}

// GetByID fetches one comment.
func (r *CommentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Comment, error) {
	const query = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Comment{}, mapError(err, "comment", id)
	}
	return c, nil
}

// ListForUnit returns comments visible on a unit: source-string
// comments plus comments scoped to the unit's language, oldest first.
func (r *CommentRepo) ListForUnit(ctx context.Context, projectID uuid.UUID, idHash, languageCode string) ([]domain.Comment, error) {
	const query = `SELECT ` + commentColumns + `
		FROM comments
		WHERE project_id = $1 AND id_hash = $2
		AND (language_code IS NULL OR language_code = $3)
		ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, projectID, idHash, languageCode)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "comment", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
