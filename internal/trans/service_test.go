package trans_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/trans"
)

type fakeUnits struct {
	units map[uuid.UUID]domain.Unit
	saved []domain.Change
}

func newFakeUnits(units ...domain.Unit) *fakeUnits {
	f := &fakeUnits{units: make(map[uuid.UUID]domain.Unit)}
	for _, u := range units {
		f.units[u.ID] = u
	}
	return f
}

func (f *fakeUnits) GetByID(_ context.Context, id uuid.UUID) (domain.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return domain.Unit{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUnits) FindByHash(_ context.Context, translationID uuid.UUID, idHash string) (domain.Unit, error) {
	for _, u := range f.units {
		if u.TranslationID == translationID && u.IDHash == idHash {
			return u, nil
		}
	}
	return domain.Unit{}, domain.ErrNotFound
}

func (f *fakeUnits) ListByTranslation(_ context.Context, translationID uuid.UUID) ([]domain.Unit, error) {
	var out []domain.Unit
	for _, u := range f.units {
		if u.TranslationID == translationID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUnits) MatchingTarget(_ context.Context, _ domain.ReplaceScope, substring string) ([]domain.Unit, error) {
	var out []domain.Unit
	for _, u := range f.units {
		if strings.Contains(u.Target, substring) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUnits) Save(_ context.Context, unit domain.Unit, change domain.Change) error {
	if _, ok := f.units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	f.units[unit.ID] = unit
	f.saved = append(f.saved, change)
	return nil
}

type fakeChanges struct {
	entries        map[uuid.UUID]domain.Change
	inserted       []domain.Change
	hasContributor bool
}

func (f *fakeChanges) Insert(_ context.Context, ch domain.Change) error {
	f.inserted = append(f.inserted, ch)
	return nil
}

func (f *fakeChanges) GetByID(_ context.Context, id uuid.UUID) (domain.Change, error) {
	ch, ok := f.entries[id]
	if !ok {
		return domain.Change{}, domain.ErrNotFound
	}
	return ch, nil
}

func (f *fakeChanges) HasRecentContributor(context.Context, uuid.UUID, time.Duration) (bool, error) {
	return f.hasContributor, nil
}

type fakeSuggestions struct {
	store map[uuid.UUID]domain.Suggestion
	votes map[uuid.UUID]map[uuid.UUID]int
}

func newFakeSuggestions() *fakeSuggestions {
	return &fakeSuggestions{
		store: make(map[uuid.UUID]domain.Suggestion),
		votes: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakeSuggestions) Add(_ context.Context, s domain.Suggestion) (bool, error) {
	for _, existing := range f.store {
		if existing.UnitID == s.UnitID && existing.Target == s.Target {
			return false, nil
		}
	}
	s.ID = uuid.New()
	f.store[s.ID] = s
	return true, nil
}

func (f *fakeSuggestions) GetScoped(_ context.Context, id, projectID uuid.UUID, languageCode string) (domain.Suggestion, error) {
	s, ok := f.store[id]
	if !ok || s.ProjectID != projectID || s.LanguageCode != languageCode {
		return domain.Suggestion{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeSuggestions) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.store, id)
	return nil
}

func (f *fakeSuggestions) Vote(_ context.Context, suggestionID, userID uuid.UUID, value int) (int, error) {
	if f.votes[suggestionID] == nil {
		f.votes[suggestionID] = make(map[uuid.UUID]int)
	}
	f.votes[suggestionID][userID] = value
	var tally int
	for _, v := range f.votes[suggestionID] {
		tally += v
	}
	return tally, nil
}

type fakeComments struct {
	store map[uuid.UUID]domain.Comment
}

func (f *fakeComments) Add(_ context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.store[c.ID] = c
	return c, nil
}

func (f *fakeComments) GetByID(_ context.Context, id uuid.UUID) (domain.Comment, error) {
	c, ok := f.store[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeComments) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.store, id)
	return nil
}

type fakeUsers struct {
	credited map[uuid.UUID]int
}

func (f *fakeUsers) IncrementTranslated(_ context.Context, id uuid.UUID) error {
	if f.credited == nil {
		f.credited = make(map[uuid.UUID]int)
	}
	f.credited[id]++
	return nil
}

type fakeCatalog struct {
	siblings map[string]domain.Translation
}

func (f *fakeCatalog) SiblingTranslation(_ context.Context, _ uuid.UUID, componentSlug, _ string) (domain.Translation, error) {
	t, ok := f.siblings[componentSlug]
	if !ok {
		return domain.Translation{}, domain.ErrNotFound
	}
	return t, nil
}

type fixture struct {
	svc         *trans.Service
	units       *fakeUnits
	changes     *fakeChanges
	suggestions *fakeSuggestions
	comments    *fakeComments
	users       *fakeUsers
	catalog     *fakeCatalog
	scope       domain.TranslationScope
	translator  domain.User
	reviewer    domain.User
	contributor domain.User
}

func newFixture(t *testing.T, units ...domain.Unit) *fixture {
	t.Helper()
	f := &fixture{
		units:       newFakeUnits(units...),
		changes:     &fakeChanges{entries: make(map[uuid.UUID]domain.Change), hasContributor: true},
		suggestions: newFakeSuggestions(),
		comments:    &fakeComments{store: make(map[uuid.UUID]domain.Comment)},
		users:       &fakeUsers{},
		catalog:     &fakeCatalog{siblings: make(map[string]domain.Translation)},
		scope: domain.TranslationScope{
			Project:     domain.Project{ID: uuid.New(), Slug: "website"},
			Component:   domain.Component{ID: uuid.New(), Slug: "landing"},
			Translation: domain.Translation{ID: uuid.New(), LanguageCode: "cs"},
			Language:    domain.Language{Code: "cs", Name: "Czech"},
		},
		translator:  domain.User{ID: uuid.New(), Username: "marta", Role: domain.RoleTranslator},
		reviewer:    domain.User{ID: uuid.New(), Username: "ivo", Role: domain.RoleReviewer},
		contributor: domain.User{ID: uuid.New(), Username: "jan", Role: domain.RoleContributor},
	}
	f.svc = trans.NewService(slog.New(slog.DiscardHandler),
		f.units, f.changes, f.suggestions, f.comments, f.users, f.catalog)
	return f
}

func (f *fixture) unit(source, target string) domain.Unit {
	u := domain.Unit{
		ID:            uuid.New(),
		TranslationID: f.scope.Translation.ID,
		IDHash:        domain.Checksum(source, ""),
		Position:      len(f.units.units) + 1,
		Source:        source,
		Target:        target,
	}
	f.units.units[u.ID] = u
	return u
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("saves with autofix applied", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		res, err := f.svc.Translate(context.Background(), f.scope, f.translator, u.ID, "Ahoj \t", false)
		require.NoError(t, err)
		assert.Equal(t, "Ahoj", res.Unit.Target)
		assert.Contains(t, res.AppliedFixes, "Trailing whitespace")
		require.Len(t, f.units.saved, 1)
		assert.Equal(t, domain.ActionNewTranslation, f.units.saved[0].Action)
		assert.Equal(t, 1, f.users.credited[f.translator.ID])
	})

	t.Run("editing existing target records change action", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "Ahoj")

		_, err := f.svc.Translate(context.Background(), f.scope, f.translator, u.ID, "Nazdar", false)
		require.NoError(t, err)
		assert.Equal(t, domain.ActionChangeTranslation, f.units.saved[0].Action)
	})

	t.Run("new check failure asks to stay", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Count: %d", "")

		res, err := f.svc.Translate(context.Background(), f.scope, f.translator, u.ID, "Pocet", false)
		require.NoError(t, err)
		assert.Contains(t, res.FailingChecks, "placeholders")
		assert.True(t, res.Stay)
	})

	t.Run("fuzzy save never asks to stay", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Count: %d", "")

		res, err := f.svc.Translate(context.Background(), f.scope, f.translator, u.ID, "Pocet", true)
		require.NoError(t, err)
		assert.False(t, res.Stay)
	})

	t.Run("contributor may not translate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		_, err := f.svc.Translate(context.Background(), f.scope, f.contributor, u.ID, "Ahoj", false)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("locked component rejects writes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		f.scope.Component.Locked = true

		_, err := f.svc.Translate(context.Background(), f.scope, f.translator, u.ID, "Ahoj", false)
		assert.ErrorIs(t, err, domain.ErrLocked)
	})

	t.Run("unit outside scope is not found", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		foreign := domain.Unit{ID: uuid.New(), TranslationID: uuid.New(), Source: "Hello"}
		f.units.units[foreign.ID] = foreign

		_, err := f.svc.Translate(context.Background(), f.scope, f.translator, foreign.ID, "Ahoj", false)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("copies target from unit with the same source", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		other := domain.Unit{
			ID: uuid.New(), TranslationID: uuid.New(),
			IDHash: u.IDHash, Source: "Hello", Target: "Ahoj",
		}
		f.units.units[other.ID] = other

		merged, err := f.svc.Merge(context.Background(), f.scope, f.translator, u.ID, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ahoj", merged.Target)
	})

	t.Run("refuses different source strings", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		other := f.unit("Goodbye", "Sbohem")

		_, err := f.svc.Merge(context.Background(), f.scope, f.translator, u.ID, other.ID)
		assert.ErrorIs(t, err, domain.ErrHashMismatch)
	})
}

func TestRevert(t *testing.T) {
	t.Parallel()

	t.Run("restores target from change entry", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "Nazdar")
		ch := domain.Change{ID: uuid.New(), UnitID: &u.ID, Target: "Ahoj"}
		f.changes.entries[ch.ID] = ch

		reverted, err := f.svc.Revert(context.Background(), f.scope, f.translator, u.ID, ch.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ahoj", reverted.Target)
		assert.Equal(t, domain.ActionRevert, f.units.saved[0].Action)
	})

	t.Run("refuses empty historic target", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "Ahoj")
		ch := domain.Change{ID: uuid.New(), UnitID: &u.ID, Target: ""}
		f.changes.entries[ch.ID] = ch

		_, err := f.svc.Revert(context.Background(), f.scope, f.translator, u.ID, ch.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("refuses change of another unit", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "Ahoj")
		otherID := uuid.New()
		ch := domain.Change{ID: uuid.New(), UnitID: &otherID, Target: "Nazdar"}
		f.changes.entries[ch.ID] = ch

		_, err := f.svc.Revert(context.Background(), f.scope, f.translator, u.ID, ch.ID)
		assert.ErrorIs(t, err, domain.ErrHashMismatch)
	})
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	t.Run("creates suggestion with change entry", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		res, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, "Ahoj")
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.False(t, res.Nudge)
		require.Len(t, f.changes.inserted, 1)
		assert.Equal(t, domain.ActionSuggestion, f.changes.inserted[0].Action)
	})

	t.Run("identical suggestion is a silent no-op", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		_, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, "Ahoj")
		require.NoError(t, err)
		res, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, "Ahoj")
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Len(t, f.changes.inserted, 1)
	})

	t.Run("rejects empty suggestion", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		_, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("nudges translators when nobody is active", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.changes.hasContributor = false
		u := f.unit("Hello", "")

		res, err := f.svc.Suggest(context.Background(), f.scope, f.translator, u.ID, "Ahoj")
		require.NoError(t, err)
		assert.True(t, res.Nudge)
	})

	t.Run("locked component accepts no suggestions", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.scope.Component.Locked = true
		u := f.unit("Hello", "")

		_, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, "Ahoj")
		assert.ErrorIs(t, err, domain.ErrLocked)
		assert.Empty(t, f.suggestions.store)
	})
}

func TestSuggestionLifecycle(t *testing.T) {
	t.Parallel()

	suggest := func(t *testing.T, f *fixture, u domain.Unit, target string) domain.Suggestion {
		t.Helper()
		_, err := f.svc.Suggest(context.Background(), f.scope, f.contributor, u.ID, target)
		require.NoError(t, err)
		for _, s := range f.suggestions.store {
			if s.UnitID == u.ID && s.Target == target {
				return s
			}
		}
		t.Fatal("suggestion not stored")
		return domain.Suggestion{}
	}

	t.Run("accept saves target and removes suggestion", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		unit, err := f.svc.AcceptSuggestion(context.Background(), f.scope, f.reviewer, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ahoj", unit.Target)
		assert.False(t, unit.Fuzzy)
		assert.Empty(t, f.suggestions.store)
		assert.Equal(t, 1, f.users.credited[f.reviewer.ID])
	})

	t.Run("translator may not accept", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		_, err := f.svc.AcceptSuggestion(context.Background(), f.scope, f.translator, s.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("id from another scope does not resolve", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		otherScope := f.scope
		otherScope.Project.ID = uuid.New()
		_, err := f.svc.AcceptSuggestion(context.Background(), otherScope, f.reviewer, s.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("proposer may withdraw own suggestion", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		require.NoError(t, f.svc.DeleteSuggestion(context.Background(), f.scope, f.contributor, s.ID))
		assert.Empty(t, f.suggestions.store)
	})

	t.Run("other contributor may not delete", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		stranger := domain.User{ID: uuid.New(), Role: domain.RoleContributor}
		err := f.svc.DeleteSuggestion(context.Background(), f.scope, stranger, s.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("repeated vote replaces previous one", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")

		votes, err := f.svc.VoteSuggestion(context.Background(), f.scope, f.translator, s.ID, true)
		require.NoError(t, err)
		assert.Equal(t, 1, votes)

		votes, err = f.svc.VoteSuggestion(context.Background(), f.scope, f.translator, s.ID, false)
		require.NoError(t, err)
		assert.Equal(t, -1, votes)
	})

	t.Run("locked component blocks withdraw and vote", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		s := suggest(t, f, u, "Ahoj")
		f.scope.Component.Locked = true

		err := f.svc.DeleteSuggestion(context.Background(), f.scope, f.contributor, s.ID)
		assert.ErrorIs(t, err, domain.ErrLocked)
		assert.Len(t, f.suggestions.store, 1)

		_, err = f.svc.VoteSuggestion(context.Background(), f.scope, f.translator, s.ID, true)
		assert.ErrorIs(t, err, domain.ErrLocked)
	})
}

func TestReplace(t *testing.T) {
	t.Parallel()

	t.Run("replaces in every matching unit", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.unit("Hello world", "Ahoj svete")
		f.unit("Goodbye world", "Sbohem svete")
		f.unit("Untranslated", "")

		scope := domain.ReplaceScope{ProjectID: f.scope.Project.ID}
		updated, err := f.svc.Replace(context.Background(), scope, f.reviewer, "svete", "svĕte")
		require.NoError(t, err)
		assert.Equal(t, 2, updated)
		assert.Len(t, f.units.saved, 2)
		for _, ch := range f.units.saved {
			assert.Equal(t, domain.ActionReplace, ch.Action)
		}
	})

	t.Run("rejects empty search", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Replace(context.Background(), domain.ReplaceScope{ProjectID: uuid.New()}, f.reviewer, "", "x")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("translator may not run replace", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.Replace(context.Background(), domain.ReplaceScope{ProjectID: uuid.New()}, f.translator, "a", "b")
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})
}

func TestAutoTranslate(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, f *fixture) (domain.Unit, domain.Unit) {
		t.Helper()
		sibling := domain.Translation{ID: uuid.New(), LanguageCode: "cs"}
		f.catalog.siblings["docs"] = sibling

		donor := domain.Unit{
			ID: uuid.New(), TranslationID: sibling.ID,
			IDHash: domain.Checksum("Hello", ""), Source: "Hello", Target: "Ahoj",
		}
		f.units.units[donor.ID] = donor
		empty := f.unit("Hello", "")
		return donor, empty
	}

	t.Run("fills untranslated units by source identity", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, empty := seed(t, f)
		translated := f.unit("Hello", "Nazdar") // same hash, already translated

		updated, err := f.svc.AutoTranslate(context.Background(), f.scope, f.reviewer, "docs", false)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)
		assert.Equal(t, "Ahoj", f.units.units[empty.ID].Target)
		assert.Equal(t, "Nazdar", f.units.units[translated.ID].Target)
	})

	t.Run("overwrite replaces existing translations too", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		seed(t, f)
		translated := f.unit("Hello", "Nazdar")

		updated, err := f.svc.AutoTranslate(context.Background(), f.scope, f.reviewer, "docs", true)
		require.NoError(t, err)
		assert.Equal(t, 2, updated)
		assert.Equal(t, "Ahoj", f.units.units[translated.ID].Target)
	})

	t.Run("source component must differ", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.svc.AutoTranslate(context.Background(), f.scope, f.reviewer, f.scope.Component.Slug, false)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestComments(t *testing.T) {
	t.Parallel()

	t.Run("scoped comment carries the language", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		c, err := f.svc.AddComment(context.Background(), f.scope, f.contributor, u, "typo in source", false)
		require.NoError(t, err)
		require.NotNil(t, c.LanguageCode)
		assert.Equal(t, "cs", *c.LanguageCode)
	})

	t.Run("global comment has no language", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")

		c, err := f.svc.AddComment(context.Background(), f.scope, f.contributor, u, "applies everywhere", true)
		require.NoError(t, err)
		assert.True(t, c.Global())
	})

	t.Run("reviewer may delete, author may not", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		c, err := f.svc.AddComment(context.Background(), f.scope, f.contributor, u, "remove me", false)
		require.NoError(t, err)

		_, err = f.svc.DeleteComment(context.Background(), f.contributor, c.ID, &f.scope.Translation.ID)
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)

		_, err = f.svc.DeleteComment(context.Background(), f.reviewer, c.ID, &f.scope.Translation.ID)
		require.NoError(t, err)
		assert.Empty(t, f.comments.store)
	})

	t.Run("deletion without a translation skips the change log", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		u := f.unit("Hello", "")
		c, err := f.svc.AddComment(context.Background(), f.scope, f.contributor, u, "orphan", false)
		require.NoError(t, err)
		logged := len(f.changes.inserted)

		_, err = f.svc.DeleteComment(context.Background(), f.reviewer, c.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, f.comments.store)
		assert.Len(t, f.changes.inserted, logged)
	})
}
