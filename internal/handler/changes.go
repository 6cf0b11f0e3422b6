package handler

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/glosshq/gloss/internal/binder"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/policy"
	"github.com/glosshq/gloss/internal/postgres"
	"github.com/glosshq/gloss/internal/response"
	"github.com/glosshq/gloss/internal/view"
)

// changesPageSize is how many entries one page of the browser shows.
const changesPageSize = 20

// csvRowLimit caps the CSV export.
const csvRowLimit = 2000

// changesForm is the change browser query string.
type changesForm struct {
	Project   string `query:"project"`
	Component string `query:"component"`
	Lang      string `query:"lang"`
	User      string `query:"user"`
	Glossary  bool   `query:"glossary"`
	Page      int    `query:"page"`
}

// buildChangeFilter validates the requested filters. Values that do
// not resolve are dropped with a warning instead of failing the page,
// so a stale bookmark still shows something useful.
func (h *Handler) buildChangeFilter(r *http.Request, form changesForm) (postgres.ChangeFilter, []string) {
	ctx := r.Context()
	var (
		filter   postgres.ChangeFilter
		warnings []string
	)

	if form.Project != "" {
		project, err := h.catalog.GetProjectBySlug(ctx, form.Project)
		switch {
		case err == nil:
			filter.ProjectSlug = project.Slug
			if form.Component != "" {
				if _, err := h.catalog.GetComponentBySlug(ctx, project.ID, form.Component); err == nil {
					filter.ComponentSlug = form.Component
				} else {
					warnings = append(warnings, fmt.Sprintf("Unknown component: %s", form.Component))
				}
			}
		case errors.Is(err, domain.ErrNotFound):
			warnings = append(warnings, fmt.Sprintf("Unknown project: %s", form.Project))
		}
	}

	if form.Lang != "" {
		if _, err := language.Parse(form.Lang); err != nil {
			warnings = append(warnings, fmt.Sprintf("Invalid language code: %s", form.Lang))
		} else if _, err := h.catalog.GetLanguage(r.Context(), form.Lang); err == nil {
			filter.LanguageCode = form.Lang
		} else {
			warnings = append(warnings, fmt.Sprintf("Unknown language: %s", form.Lang))
		}
	}

	if form.User != "" {
		if _, err := h.users.GetByUsername(ctx, form.User); err == nil {
			filter.Username = form.User
		} else {
			warnings = append(warnings, fmt.Sprintf("Unknown user: %s", form.User))
		}
	}

	filter.Glossary = form.Glossary
	return filter, warnings
}

// Changes renders the change browser.
func (h *Handler) Changes(r *http.Request, c *reqCtx) (response.Response, error) {
	var form changesForm
	if err := binder.Query(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	if form.Page < 1 {
		form.Page = 1
	}

	filter, warnings := h.buildChangeFilter(r, form)
	total, err := h.changes.Count(r.Context(), filter)
	if err != nil {
		return nil, err
	}

	filter.Limit = changesPageSize
	filter.Offset = uint64(form.Page-1) * changesPageSize
	entries, err := h.changes.List(r.Context(), filter)
	if err != nil {
		return nil, err
	}

	data := view.ChangesData{
		Warnings: warnings,
		Total:    total,
	}
	for _, entry := range entries {
		data.Rows = append(data.Rows, changeRow(entry))
	}
	if form.Page > 1 {
		data.PrevURL = changesURL(r.URL.Query(), form.Page-1)
	}
	if uint64(total) > filter.Offset+uint64(len(entries)) {
		data.NextURL = changesURL(r.URL.Query(), form.Page+1)
	}
	q := r.URL.Query()
	q.Del("page")
	queryString := ""
	if len(q) > 0 {
		queryString = "?" + q.Encode()
	}
	data.PermalinkURL = "/changes/" + queryString
	data.RSSURL = "/changes/rss/" + queryString
	if policy.Allow(c.user, policy.CapDownloadChanges) {
		data.DownloadURL = "/changes/csv/" + queryString
	}

	page := view.Layout("Changes", c.takeFlashes(), view.ChangesPage(data))
	return response.Templ(page), nil
}

func changeRow(entry postgres.ChangeEntry) view.ChangeRow {
	row := view.ChangeRow{
		Timestamp: entry.CreatedAt,
		Action:    entry.Action.String(),
		Target:    entry.Target,
		Username:  entry.Username,
	}
	if entry.IDHash != "" {
		row.UnitURL = checksumURL(entry.ProjectSlug, entry.ComponentSlug, entry.LanguageCode, entry.IDHash)
	}
	return row
}

// csvPrinter fixes the export locale. Downloads are fed to scripts, so
// they never follow the viewer's language.
var csvPrinter = message.NewPrinter(language.English)

// ChangesCSV exports the filtered change log as CSV, capped at
// csvRowLimit rows.
func (h *Handler) ChangesCSV(r *http.Request, c *reqCtx) (response.Response, error) {
	if err := policy.Check(c.user, policy.CapDownloadChanges); err != nil {
		return nil, err
	}

	var form changesForm
	if err := binder.Query(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	filter, _ := h.buildChangeFilter(r, form)
	filter.Limit = csvRowLimit
	entries, err := h.changes.List(r.Context(), filter)
	if err != nil {
		return nil, err
	}

	return response.Attachment("changes.csv", "text/csv; charset=utf-8", func(w io.Writer) error {
		out := csv.NewWriter(w)
		if err := out.Write([]string{"timestamp", "action", "user", "url"}); err != nil {
			return err
		}
		for _, entry := range entries {
			unitURL := ""
			if entry.IDHash != "" {
				unitURL = checksumURL(entry.ProjectSlug, entry.ComponentSlug, entry.LanguageCode, entry.IDHash)
			}
			record := []string{
				entry.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				csvPrinter.Sprintf("%s", entry.Action.String()),
				entry.Username,
				unitURL,
			}
			if err := out.Write(record); err != nil {
				return err
			}
		}
		out.Flush()
		return out.Error()
	}), nil
}

// rssItemLimit caps the feed length.
const rssItemLimit = 20

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// ChangesRSS serves the filtered change log as an RSS feed.
func (h *Handler) ChangesRSS(r *http.Request, c *reqCtx) (response.Response, error) {
	var form changesForm
	if err := binder.Query(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	filter, _ := h.buildChangeFilter(r, form)
	filter.Limit = rssItemLimit
	entries, err := h.changes.List(r.Context(), filter)
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		if _, err := io.WriteString(w, xml.Header+`<rss version="2.0"><channel>
<title>Recent changes</title>
<link>/changes/</link>
<description>Latest translation changes</description>
`); err != nil {
			return err
		}
		for _, entry := range entries {
			unitURL := ""
			if entry.IDHash != "" {
				unitURL = checksumURL(entry.ProjectSlug, entry.ComponentSlug, entry.LanguageCode, entry.IDHash)
			}
			if _, err := fmt.Fprintf(w, `<item>
<title>%s</title>
<link>%s</link>
<description>%s</description>
<pubDate>%s</pubDate>
</item>
`,
				xmlEscaper.Replace(entry.Action.String()),
				xmlEscaper.Replace(unitURL),
				xmlEscaper.Replace(entry.Target),
				entry.CreatedAt.UTC().Format(time.RFC1123Z)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</channel></rss>\n")
		return err
	}, nil
}
