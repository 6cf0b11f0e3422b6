package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SearchQuery describes a unit search within one translation.
type SearchQuery struct {
	// Text filters on source, target, and context substrings.
	Text string
	// Type is one of "all", "untranslated", "fuzzy", "translated",
	// "random". Empty means "all".
	Type string
}

// randomSampleLimit caps the number of units a random search returns.
const randomSampleLimit = 25

// UnitRepo persists translation units.
type UnitRepo struct {
	pool *pgxpool.Pool
}

// NewUnitRepo creates a unit repository.
func NewUnitRepo(pool *pgxpool.Pool) *UnitRepo {
	return &UnitRepo{pool: pool}
}

const unitColumns = `id, translation_id, id_hash, position, context, source, target, fuzzy, updated_at`

func scanUnit(row pgx.Row) (domain.Unit, error) {
	var u domain.Unit
	err := row.Scan(&u.ID, &u.TranslationID, &u.IDHash, &u.Position,
		&u.Context, &u.Source, &u.Target, &u.Fuzzy, &u.UpdatedAt)
	return u, err
}

func collectUnits(rows pgx.Rows) ([]domain.Unit, error) {
	defer rows.Close()
	var units []domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// GetByID fetches a single unit.
func (r *UnitRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	u, err := scanUnit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Unit{}, mapError(err, "unit", id)
	}
	return u, nil
}

// ListByIDs fetches the given units ordered by their position in the
// translation file. Unknown ids are silently skipped.
func (r *UnitRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + unitColumns + ` FROM units WHERE id = ANY($1) ORDER BY position`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return collectUnits(rows)
}

// ListByTranslation fetches all units of a translation in file order.
func (r *UnitRepo) ListByTranslation(ctx context.Context, translationID uuid.UUID) ([]domain.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE translation_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, query, translationID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return collectUnits(rows)
}

// FindByHash fetches the unit with the given identity hash within one
// translation.
func (r *UnitRepo) FindByHash(ctx context.Context, translationID uuid.UUID, idHash string) (domain.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE translation_id = $1 AND id_hash = $2`
	u, err := scanUnit(r.pool.QueryRow(ctx, query, translationID, idHash))
	if err != nil {
		return domain.Unit{}, mapError(err, "unit", translationID)
	}
	return u, nil
}

// SameSourceUnit is a unit with the same source string elsewhere in
// the project, annotated with where it lives.
type SameSourceUnit struct {
	domain.Unit
	ComponentSlug string
	ComponentName string
}

// SameSource finds units representing the same source string in other
// components of the project, in the same language. Used for the
// "other occurrences" panel and for merging translations.
func (r *UnitRepo) SameSource(ctx context.Context, projectID uuid.UUID, languageCode, idHash string, exclude uuid.UUID) ([]SameSourceUnit, error) {
	query := `
		SELECT ` + prefixColumns("u", unitColumns) + `, c.slug, c.name
		FROM units u
		JOIN translations t ON t.id = u.translation_id
		JOIN components c ON c.id = t.component_id
		WHERE c.project_id = $1 AND t.language_code = $2 AND u.id_hash = $3 AND u.id <> $4
		ORDER BY c.slug`
	rows, err := r.pool.Query(ctx, query, projectID, languageCode, idHash, exclude)
	if err != nil {
		return nil, fmt.Errorf("same source units: %w", err)
	}
	defer rows.Close()

	var units []SameSourceUnit
	for rows.Next() {
		var u SameSourceUnit
		if err := rows.Scan(&u.ID, &u.TranslationID, &u.IDHash, &u.Position,
			&u.Context, &u.Source, &u.Target, &u.Fuzzy, &u.UpdatedAt,
			&u.ComponentSlug, &u.ComponentName); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// RelatedUnit names where a unit carrying an identity hash lives.
type RelatedUnit struct {
	UnitID        uuid.UUID
	TranslationID uuid.UUID
	ProjectSlug   string
	ComponentSlug string
	LanguageCode  string
}

// RelatedByHash locates the first unit in the project still carrying
// the identity hash, in component and language order.
func (r *UnitRepo) RelatedByHash(ctx context.Context, projectID uuid.UUID, idHash string) (RelatedUnit, error) {
	const query = `
		SELECT u.id, u.translation_id, p.slug, c.slug, t.language_code
		FROM units u
		JOIN translations t ON t.id = u.translation_id
		JOIN components c ON c.id = t.component_id
		JOIN projects p ON p.id = c.project_id
		WHERE c.project_id = $1 AND u.id_hash = $2
		ORDER BY c.slug, t.language_code
		LIMIT 1`
	var rel RelatedUnit
	err := r.pool.QueryRow(ctx, query, projectID, idHash).Scan(
		&rel.UnitID, &rel.TranslationID, &rel.ProjectSlug, &rel.ComponentSlug, &rel.LanguageCode)
	if err != nil {
		return RelatedUnit{}, mapError(err, "unit", projectID)
	}
	return rel, nil
}

// SearchIDs runs a unit search within one translation and returns the
// matching unit ids in presentation order. Random searches return a
// bounded shuffled sample; all other types follow file order.
func (r *UnitRepo) SearchIDs(ctx context.Context, translationID uuid.UUID, q SearchQuery) ([]uuid.UUID, error) {
	b := psql.Select("id").From("units").Where(squirrel.Eq{"translation_id": translationID})

	if q.Text != "" {
		pattern := "%" + q.Text + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"source": pattern},
			squirrel.ILike{"target": pattern},
			squirrel.ILike{"context": pattern},
		})
	}

	switch q.Type {
	case "", "all":
		b = b.OrderBy("position")
	case "untranslated":
		b = b.Where(squirrel.Eq{"target": ""}).OrderBy("position")
	case "fuzzy":
		b = b.Where(squirrel.Eq{"fuzzy": true}).OrderBy("position")
	case "translated":
		b = b.Where(squirrel.NotEq{"target": ""}).Where(squirrel.Eq{"fuzzy": false}).OrderBy("position")
	case "random":
		b = b.OrderBy("random()").Limit(randomSampleLimit)
	default:
		return nil, fmt.Errorf("search type %q: %w", q.Type, domain.ErrValidation)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search units: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MatchingTarget finds units whose target contains the given substring,
// within the scope. Units in locked components are excluded so bulk
// replace never touches them.
func (r *UnitRepo) MatchingTarget(ctx context.Context, scope domain.ReplaceScope, substring string) ([]domain.Unit, error) {
	b := psql.Select(prefixColumns("u", unitColumns)).
		From("units u").
		Join("translations t ON t.id = u.translation_id").
		Join("components c ON c.id = t.component_id").
		Where("position(? in u.target) > 0", substring).
		Where(squirrel.Eq{"c.locked": false}).
		OrderBy("c.slug", "u.position")

	switch {
	case scope.TranslationID != uuid.Nil:
		b = b.Where(squirrel.Eq{"u.translation_id": scope.TranslationID})
	case scope.ComponentID != uuid.Nil:
		b = b.Where(squirrel.Eq{"t.component_id": scope.ComponentID})
	case scope.ProjectID != uuid.Nil:
		b = b.Where(squirrel.Eq{"c.project_id": scope.ProjectID})
	default:
		return nil, fmt.Errorf("empty replace scope: %w", domain.ErrValidation)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build replace query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("matching units: %w", err)
	}
	return collectUnits(rows)
}

// Save persists the unit's target and fuzzy state and appends the
// change entry in the same transaction.
func (r *UnitRepo) Save(ctx context.Context, unit domain.Unit, change domain.Change) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save of unit %s: %w", unit.ID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const update = `UPDATE units SET target = $2, fuzzy = $3, updated_at = now() WHERE id = $1`
	tag, err := tx.Exec(ctx, update, unit.ID, unit.Target, unit.Fuzzy)
	if err != nil {
		return mapError(err, "unit", unit.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("unit %s: %w", unit.ID, domain.ErrNotFound)
	}

	if err := insertChange(ctx, tx, change); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// prefixColumns qualifies a comma-separated column list with a table
// alias.
func prefixColumns(alias, columns string) string {
	return alias + "." + strings.ReplaceAll(columns, ", ", ", "+alias+".")
}
