package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// UserRepo reads accounts and maintains contribution counters.
// Account management itself lives in the identity service.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a user repository.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, username, full_name, role, translated, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Role, &u.Translated, &u.CreatedAt)
	return u, err
}

// GetByID fetches one user.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.User{}, mapError(err, "user", id)
	}
	return u, nil
}

// GetByUsername fetches one user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		return domain.User{}, mapError(err, "user", uuid.Nil)
	}
	return u, nil
}

// IncrementTranslated bumps the user's saved-translation counter.
func (r *UserRepo) IncrementTranslated(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET translated = translated + 1 WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
