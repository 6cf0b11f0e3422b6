package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glosshq/gloss/internal/domain"
)

// ChangeFilter narrows the change log. All fields are optional and
// combine with AND. Slugs and usernames are matched exactly.
type ChangeFilter struct {
	ProjectSlug   string
	ComponentSlug string
	LanguageCode  string
	Username      string
	// Glossary keeps only glossary changes when true.
	Glossary bool
	// ContentOnly keeps only changes that carry translation content.
	ContentOnly bool
	Limit       uint64
	Offset      uint64
}

// ChangeEntry is a change joined with everything the change log and its
// CSV export display. Unknown references resolve to empty strings.
type ChangeEntry struct {
	domain.Change
	Username      string
	ProjectSlug   string
	ComponentSlug string
	LanguageCode  string
	// IDHash and Source belong to the referenced unit, when it still
	// exists.
	IDHash string
	Source string
}

// ChangeRepo persists the append-only change log.
type ChangeRepo struct {
	pool *pgxpool.Pool
}

// NewChangeRepo creates a change repository.
func NewChangeRepo(pool *pgxpool.Pool) *ChangeRepo {
	return &ChangeRepo{pool: pool}
}

// insertChange appends one change entry. Project and component scope
// columns are derived from the translation (or glossary entry) so
// filters don't need to walk references at query time.
func insertChange(ctx context.Context, db dbtx, ch domain.Change) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	createdAt := ch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if ch.TranslationID != nil {
		const query = `
			INSERT INTO changes (id, action, project_id, component_id, translation_id, unit_id, glossary_entry_id, user_id, target, created_at)
			SELECT $1, $2, c.project_id, t.component_id, t.id, $4, $5, $6, $7, $8
			FROM translations t
			JOIN components c ON c.id = t.component_id
			WHERE t.id = $3`
		tag, err := db.Exec(ctx, query, ch.ID, int16(ch.Action), *ch.TranslationID,
			ch.UnitID, ch.GlossaryID, ch.UserID, ch.Target, createdAt)
		if err != nil {
			return mapError(err, "change", ch.ID)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("change %s: translation %s: %w", ch.ID, *ch.TranslationID, domain.ErrNotFound)
		}
		return nil
	}

	const query = `
		INSERT INTO changes (id, action, project_id, glossary_entry_id, user_id, target, created_at)
		SELECT $1, $2, g.project_id, g.id, $4, $5, $6
		FROM glossary_entries g
		WHERE g.id = $3`
	if ch.GlossaryID == nil {
		return fmt.Errorf("change %s has no translation or glossary reference: %w", ch.ID, domain.ErrValidation)
	}
	tag, err := db.Exec(ctx, query, ch.ID, int16(ch.Action), *ch.GlossaryID, ch.UserID, ch.Target, createdAt)
	if err != nil {
		return mapError(err, "change", ch.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("change %s: glossary entry %s: %w", ch.ID, *ch.GlossaryID, domain.ErrNotFound)
	}
	return nil
}

// Insert appends one change entry.
func (r *ChangeRepo) Insert(ctx context.Context, ch domain.Change) error {
	return insertChange(ctx, r.pool, ch)
}

// contentActions lists the actions that carry translation content,
// mirroring Change.HasContent.
var contentActions = []int16{
	int16(domain.ActionNewTranslation),
	int16(domain.ActionChangeTranslation),
	int16(domain.ActionAcceptSuggestion),
	int16(domain.ActionRevert),
	int16(domain.ActionReplace),
	int16(domain.ActionAutoTranslate),
}

func (r *ChangeRepo) buildList(f ChangeFilter) squirrel.SelectBuilder {
	b := psql.Select(
		"ch.id", "ch.created_at", "ch.action", "ch.user_id", "ch.unit_id",
		"ch.translation_id", "ch.glossary_entry_id", "ch.target",
		"COALESCE(usr.username, '')", "COALESCE(p.slug, '')",
		"COALESCE(c.slug, '')", "COALESCE(tr.language_code, '')",
		"COALESCE(un.id_hash, '')", "COALESCE(un.source, '')",
	).
		From("changes ch").
		LeftJoin("users usr ON usr.id = ch.user_id").
		LeftJoin("projects p ON p.id = ch.project_id").
		LeftJoin("components c ON c.id = ch.component_id").
		LeftJoin("translations tr ON tr.id = ch.translation_id").
		LeftJoin("units un ON un.id = ch.unit_id")

	if f.ProjectSlug != "" {
		b = b.Where(squirrel.Eq{"p.slug": f.ProjectSlug})
	}
	if f.ComponentSlug != "" {
		b = b.Where(squirrel.Eq{"c.slug": f.ComponentSlug})
	}
	if f.LanguageCode != "" {
		b = b.Where(squirrel.Eq{"tr.language_code": f.LanguageCode})
	}
	if f.Username != "" {
		b = b.Where(squirrel.Eq{"usr.username": f.Username})
	}
	if f.Glossary {
		b = b.Where("ch.glossary_entry_id IS NOT NULL")
	}
	if f.ContentOnly {
		b = b.Where(squirrel.Eq{"ch.action": contentActions})
	}
	return b
}

// List returns change entries matching the filter, newest first.
func (r *ChangeRepo) List(ctx context.Context, f ChangeFilter) ([]ChangeEntry, error) {
	b := r.buildList(f).OrderBy("ch.created_at DESC", "ch.id DESC")
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	if f.Offset > 0 {
		b = b.Offset(f.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build change query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var entries []ChangeEntry
	for rows.Next() {
		var (
			e      ChangeEntry
			action int16
		)
		if err := rows.Scan(&e.ID, &e.CreatedAt, &action, &e.UserID, &e.UnitID,
			&e.TranslationID, &e.GlossaryID, &e.Target,
			&e.Username, &e.ProjectSlug, &e.ComponentSlug, &e.LanguageCode,
			&e.IDHash, &e.Source); err != nil {
			return nil, err
		}
		e.Action = domain.ChangeAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns how many changes match the filter.
func (r *ChangeRepo) Count(ctx context.Context, f ChangeFilter) (int, error) {
	f.Limit, f.Offset = 0, 0
	query, args, err := psql.Select("COUNT(*)").
		FromSelect(r.buildList(f), "matched").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build change count: %w", err)
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count changes: %w", err)
	}
	return count, nil
}

// GetByID fetches one change.
func (r *ChangeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Change, error) {
	const query = `
		SELECT id, created_at, action, user_id, unit_id, translation_id, glossary_entry_id, target
		FROM changes WHERE id = $1`
	var (
		ch     domain.Change
		action int16
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(&ch.ID, &ch.CreatedAt, &action,
		&ch.UserID, &ch.UnitID, &ch.TranslationID, &ch.GlossaryID, &ch.Target)
	if err != nil {
		return domain.Change{}, mapError(err, "change", id)
	}
	ch.Action = domain.ChangeAction(action)
	return ch, nil
}

// HasRecentContributor reports whether any authenticated user recorded
// a content change on the translation within the window. When nobody
// did, new suggestions come with a nudge to translate directly.
func (r *ChangeRepo) HasRecentContributor(ctx context.Context, translationID uuid.UUID, window time.Duration) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM changes
			WHERE translation_id = $1 AND user_id IS NOT NULL
			AND action = ANY($2) AND created_at >= $3
		)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, translationID, contentActions, time.Now().Add(-window)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("recent contributor: %w", err)
	}
	return exists, nil
}

// UnitIDsSince returns ids of units in the translation touched since
// the given time, excluding the viewer's own edits. Backs the review
// search mode.
func (r *ChangeRepo) UnitIDsSince(ctx context.Context, translationID uuid.UUID, since time.Time, exclude uuid.UUID) ([]uuid.UUID, error) {
	const query = `
		SELECT un.id
		FROM units un
		WHERE un.translation_id = $1 AND EXISTS (
			SELECT 1 FROM changes ch
			WHERE ch.unit_id = un.id AND ch.created_at >= $2
			AND (ch.user_id IS NULL OR ch.user_id <> $3)
		)
		ORDER BY un.position`
	rows, err := r.pool.Query(ctx, query, translationID, since, exclude)
	if err != nil {
		return nil, fmt.Errorf("review units: %w", err)
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
