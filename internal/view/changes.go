package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// ChangeRow is one rendered change log entry.
type ChangeRow struct {
	Timestamp time.Time
	Action    string
	Target    string
	Username  string
	// UnitURL points at the changed unit, empty when it no longer
	// exists.
	UnitURL string
}

// ChangesData feeds the change browser page.
type ChangesData struct {
	Rows []ChangeRow
	// Warnings lists filter values that did not resolve. The page
	// still renders without the broken filter.
	Warnings []string
	// PrevURL and NextURL are empty on the first and last page.
	PrevURL string
	NextURL string
	// DownloadURL links the CSV export for users who may download.
	DownloadURL string
	// PermalinkURL reproduces the active filters, RSSURL feeds them.
	PermalinkURL string
	RSSURL       string
	Total        int
}

// ChangesPage renders the change browser.
func ChangesPage(data ChangesData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Changes</h1>
<p class="total">%d changes</p>
`, data.Total); err != nil {
			return err
		}

		for _, warning := range data.Warnings {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-warning">%s</div>
`, esc(warning)); err != nil {
				return err
			}
		}

		if data.DownloadURL != "" {
			if _, err := fmt.Fprintf(w, `<p><a class="download" href="%s">Download CSV</a></p>
`, esc(data.DownloadURL)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, `<p class="links"><a href="%s">Permalink</a> <a class="rss" href="%s">RSS</a></p>
`, esc(data.PermalinkURL), esc(data.RSSURL)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "<table class=\"changes\">\n<tr><th>When</th><th>Action</th><th>Translation</th><th>User</th></tr>\n"); err != nil {
			return err
		}
		for _, row := range data.Rows {
			user := row.Username
			if user == "" {
				user = "anonymous"
			}
			target := row.Target
			if row.UnitURL != "" {
				target = fmt.Sprintf(`<a href="%s">%s</a>`, esc(row.UnitURL), esc(row.Target))
			} else {
				target = esc(target)
			}
			if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				esc(row.Timestamp.Format("2006-01-02 15:04")), esc(row.Action), target, esc(user)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</table>\n"); err != nil {
			return err
		}

		if data.PrevURL != "" {
			if _, err := fmt.Fprintf(w, `<a class="pager" href="%s">Newer</a>
`, esc(data.PrevURL)); err != nil {
				return err
			}
		}
		if data.NextURL != "" {
			if _, err := fmt.Fprintf(w, `<a class="pager" href="%s">Older</a>
`, esc(data.NextURL)); err != nil {
				return err
			}
		}
		return nil
	})
}
