package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/glosshq/gloss/internal/binder"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/flash"
	"github.com/glosshq/gloss/internal/postgres"
	"github.com/glosshq/gloss/internal/response"
	"github.com/glosshq/gloss/internal/searchcache"
)

// searchForm carries the browsing state every translate URL repeats.
type searchForm struct {
	SID      string `query:"sid" form:"sid"`
	Offset   int    `query:"offset" form:"offset"`
	Checksum string `query:"checksum"`
	Query    string `query:"q"`
	Type     string `query:"type"`
	// Date bounds the review search, formatted 2006-01-02.
	Date string `query:"date"`
}

// searchState is a resolved search with the viewer's position in it.
type searchState struct {
	entry  searchcache.Entry
	offset int
}

// resolveSearch loads or creates the search the request refers to.
// A non-nil response short-circuits the request with a redirect, used
// when the search is gone, empty, or the offset ran off the end.
func (h *Handler) resolveSearch(r *http.Request, c *reqCtx, scope domain.TranslationScope) (searchState, response.Response, error) {
	var form searchForm
	if err := binder.Query(r, &form); err != nil {
		return searchState{}, nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	// Expired searches are swept lazily whenever the bag is touched,
	// so an expired sid is indistinguishable from an unknown one.
	bag := c.searches()
	if bag.Sweep(time.Now()) > 0 {
		c.markSearchesDirty()
	}

	if form.SID != "" {
		entry, ok := bag.Get(form.SID)
		if !ok {
			c.flash(flash.Error("Invalid search string!"))
			return searchState{}, response.Redirect(translateBase(scope)), nil
		}
		if !entry.InRange(form.Offset) {
			// The viewer walked past the end, the search is done.
			bag.Delete(form.SID)
			c.markSearchesDirty()
			c.flash(flash.Info("The search has come to an end."))
			return searchState{}, response.Redirect(translateBase(scope)), nil
		}
		return searchState{entry: entry, offset: form.Offset}, nil, nil
	}

	// A search form that does not validate falls back to browsing all
	// strings, the problem is surfaced as a warning instead of failing
	// the page.
	switch form.Type {
	case "", "all", "untranslated", "fuzzy", "translated", "random":
	case "review":
		if _, err := time.Parse("2006-01-02", form.Date); err != nil {
			c.flash(flash.Warning("Invalid search query!"))
			form.Type, form.Date = "", ""
		}
	default:
		c.flash(flash.Warning("Invalid search query!"))
		form.Type = ""
	}

	entry, err := h.buildSearch(r, c, scope, form)
	if err != nil {
		return searchState{}, nil, err
	}
	if len(entry.UnitIDs) == 0 {
		if form.Checksum != "" || form.Query != "" || form.Type != "" {
			c.flash(flash.Warning("No string matched your search!"))
			return searchState{}, response.Redirect(translateBase(scope)), nil
		}
		return searchState{}, nil, fmt.Errorf("translation has no strings: %w", domain.ErrNotFound)
	}

	offset := form.Offset
	if form.Checksum != "" {
		idx, err := h.checksumOffset(r.Context(), scope, entry, form.Checksum)
		if err != nil {
			return searchState{}, nil, err
		}
		if idx < 0 {
			c.flash(flash.Warning("No string matched your search!"))
			return searchState{}, response.Redirect(translateBase(scope)), nil
		}
		offset = idx
	}

	bag.Put(entry)
	c.markSearchesDirty()

	if !entry.InRange(offset) {
		offset = 0
	}
	return searchState{entry: entry, offset: offset}, nil, nil
}

// checksumOffset locates the unit with the given identity hash inside
// the search result. Negative when the hash resolves to nothing or the
// unit is not part of the result.
func (h *Handler) checksumOffset(ctx context.Context, scope domain.TranslationScope, entry searchcache.Entry, checksum string) (int, error) {
	unit, err := h.units.FindByHash(ctx, scope.Translation.ID, checksum)
	if errors.Is(err, domain.ErrNotFound) {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return slices.Index(entry.UnitIDs, unit.ID), nil
}

// buildSearch runs a fresh unit search for the request parameters.
func (h *Handler) buildSearch(r *http.Request, c *reqCtx, scope domain.TranslationScope, form searchForm) (searchcache.Entry, error) {
	ctx := r.Context()

	if form.Type == "review" {
		since, err := time.Parse("2006-01-02", form.Date)
		if err != nil {
			return searchcache.Entry{}, fmt.Errorf("invalid review date %q: %w", form.Date, domain.ErrValidation)
		}
		ids, err := h.changes.UnitIDsSince(ctx, scope.Translation.ID, since, c.user.ID)
		if err != nil {
			return searchcache.Entry{}, err
		}
		name := fmt.Sprintf("Review of translations since %s", form.Date)
		return searchcache.NewEntry(searchParams(form), "", name, ids), nil
	}

	ids, err := h.units.SearchIDs(ctx, scope.Translation.ID, postgres.SearchQuery{
		Text: form.Query,
		Type: form.Type,
	})
	if err != nil {
		return searchcache.Entry{}, err
	}
	return searchcache.NewEntry(searchParams(form), form.Query, searchName(form), ids), nil
}

// searchParams serializes the defining parameters of a search so it
// can be replayed or displayed later.
func searchParams(form searchForm) string {
	q := url.Values{}
	if form.Query != "" {
		q.Set("q", form.Query)
	}
	if form.Type != "" {
		q.Set("type", form.Type)
	}
	if form.Date != "" {
		q.Set("date", form.Date)
	}
	if form.Checksum != "" {
		q.Set("checksum", form.Checksum)
	}
	return q.Encode()
}

func searchName(form searchForm) string {
	switch form.Type {
	case "untranslated":
		return "Untranslated strings"
	case "fuzzy":
		return "Strings needing editing"
	case "translated":
		return "Translated strings"
	case "random":
		return "Random strings"
	}
	if form.Query != "" {
		return fmt.Sprintf("Search for %q", form.Query)
	}
	return "All strings"
}
