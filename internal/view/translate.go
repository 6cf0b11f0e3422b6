package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/glosshq/gloss/internal/domain"
)

// SuggestionRow is one pending suggestion with its action URLs.
type SuggestionRow struct {
	Suggestion domain.Suggestion
	Username   string
	CanAccept  bool
	CanDelete  bool
	CanVote    bool
}

// CommentRow is one rendered comment.
type CommentRow struct {
	Comment   domain.Comment
	Username  string
	CanDelete bool
}

// OtherRow links a unit with the same source string elsewhere in the
// project.
type OtherRow struct {
	ComponentName string
	Target        string
	URL           string
}

// TranslateData feeds the unit editor page.
type TranslateData struct {
	Scope domain.TranslationScope
	Unit  domain.Unit
	// SearchName describes the active search, e.g. `Search for "save"`.
	SearchName string
	// Position is 1-based within the search result.
	Position int
	Total    int
	// SID and Offset reproduce the browsing state in links and forms.
	SID    string
	Offset int

	FirstURL string
	PrevURL  string
	NextURL  string
	LastURL  string

	FailingChecks []string
	Suggestions   []SuggestionRow
	Comments      []CommentRow
	Others        []OtherRow

	CanTranslate bool
	CanSuggest   bool
	Locked       bool
}

// TranslatePage renders the unit editor.
func TranslatePage(data TranslateData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s / %s · %s</h1>
<p class="search-name">%s · %d of %d</p>
`, esc(data.Scope.Project.Name), esc(data.Scope.Component.Name),
			esc(data.Scope.Language.Name), esc(data.SearchName), data.Position, data.Total); err != nil {
			return err
		}

		if err := renderPager(w, data); err != nil {
			return err
		}
		if data.Locked {
			if _, err := io.WriteString(w, `<div class="flash flash-warning">This translation is currently locked.</div>
`); err != nil {
				return err
			}
		}

		if data.Unit.Context != "" {
			if _, err := fmt.Fprintf(w, `<p class="context">Context: <code>%s</code></p>
`, esc(data.Unit.Context)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<div class="source"><pre>%s</pre></div>
`, esc(data.Unit.Source)); err != nil {
			return err
		}

		for _, id := range data.FailingChecks {
			if _, err := fmt.Fprintf(w, `<div class="check-failure">%s</div>
`, esc(id)); err != nil {
				return err
			}
		}

		if err := renderEditor(w, data); err != nil {
			return err
		}
		if err := renderSuggestions(w, data); err != nil {
			return err
		}
		if err := renderOthers(w, data); err != nil {
			return err
		}
		return renderComments(w, data)
	})
}

func formAction(data TranslateData) string {
	return fmt.Sprintf("?sid=%s&offset=%d", esc(data.SID), data.Offset)
}

func renderPager(w io.Writer, data TranslateData) error {
	links := []struct{ label, url string }{
		{"First", data.FirstURL},
		{"Previous", data.PrevURL},
		{"Next", data.NextURL},
		{"Last", data.LastURL},
	}
	if _, err := io.WriteString(w, `<nav class="unit-pager">`); err != nil {
		return err
	}
	for _, link := range links {
		if link.url == "" {
			if _, err := fmt.Fprintf(w, `<span class="disabled">%s</span>`, link.label); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, `<a href="%s">%s</a>`, esc(link.url), link.label); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</nav>\n")
	return err
}

func renderEditor(w io.Writer, data TranslateData) error {
	if !data.CanTranslate && !data.CanSuggest {
		_, err := io.WriteString(w, `<p class="readonly">You do not have permission to translate.</p>
`)
		return err
	}

	fuzzyChecked := ""
	if data.Unit.Fuzzy {
		fuzzyChecked = " checked"
	}
	if _, err := fmt.Fprintf(w, `<form method="post" action="%s" class="editor">
<input type="text" name="content" class="hp" tabindex="-1" autocomplete="off" aria-hidden="true">
<textarea name="target" rows="4" lang="%s" dir="ltr">%s</textarea>
<label><input type="checkbox" name="fuzzy"%s> Needs editing</label>
`, formAction(data), esc(data.Scope.Language.Code), esc(data.Unit.Target), fuzzyChecked); err != nil {
		return err
	}

	if data.CanTranslate && !data.Locked {
		if _, err := io.WriteString(w, `<button type="submit" name="action" value="save">Save</button>
`); err != nil {
			return err
		}
	}
	if data.CanSuggest {
		if _, err := io.WriteString(w, `<button type="submit" name="action" value="suggest">Suggest</button>
`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</form>\n")
	return err
}

func renderSuggestions(w io.Writer, data TranslateData) error {
	if len(data.Suggestions) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "<h2>Suggestions</h2>\n<ul class=\"suggestions\">\n"); err != nil {
		return err
	}
	for _, row := range data.Suggestions {
		user := row.Username
		if user == "" {
			user = "anonymous"
		}
		if _, err := fmt.Fprintf(w, `<li><blockquote>%s</blockquote><span class="meta">%s · %+d votes</span>
<form method="post" action="%s">
<input type="hidden" name="suggestion" value="%s">
`, esc(row.Suggestion.Target), esc(user), row.Suggestion.Votes,
			formAction(data), row.Suggestion.ID); err != nil {
			return err
		}
		if row.CanAccept {
			if _, err := io.WriteString(w, `<button name="action" value="accept">Accept</button>
<button name="action" value="accept_edit">Accept and edit</button>
`); err != nil {
				return err
			}
		}
		if row.CanDelete {
			if _, err := io.WriteString(w, `<button name="action" value="delete">Delete</button>
`); err != nil {
				return err
			}
		}
		if row.CanVote {
			if _, err := io.WriteString(w, `<button name="action" value="upvote">+1</button>
<button name="action" value="downvote">-1</button>
`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</form></li>\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</ul>\n")
	return err
}

func renderOthers(w io.Writer, data TranslateData) error {
	if len(data.Others) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "<h2>Other occurrences</h2>\n<ul class=\"others\">\n"); err != nil {
		return err
	}
	for _, row := range data.Others {
		if _, err := fmt.Fprintf(w, `<li><a href="%s">%s</a>: %s</li>
`, esc(row.URL), esc(row.ComponentName), esc(row.Target)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</ul>\n")
	return err
}

func renderComments(w io.Writer, data TranslateData) error {
	if _, err := io.WriteString(w, "<h2>Comments</h2>\n"); err != nil {
		return err
	}
	next := fmt.Sprintf("/translate/%s/%s/%s/?sid=%s&offset=%d",
		data.Scope.Project.Slug, data.Scope.Component.Slug, data.Scope.Language.Code,
		data.SID, data.Offset)
	for _, row := range data.Comments {
		scope := "all languages"
		if !row.Comment.Global() {
			scope = data.Scope.Language.Name
		}
		if _, err := fmt.Fprintf(w, `<div class="comment"><p>%s</p><span class="meta">%s · %s</span>
`, esc(row.Comment.Text), esc(row.Username), esc(scope)); err != nil {
			return err
		}
		if row.CanDelete {
			if _, err := fmt.Fprintf(w, `<form method="post" action="/comment/%s/delete/"><input type="hidden" name="translation" value="%s"><input type="hidden" name="next" value="%s"><button>Delete</button></form>
`, row.Comment.ID, data.Scope.Translation.ID, esc(next)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "</div>\n"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, `<form method="post" action="/comment/%s/" class="comment-form">
<input type="hidden" name="next" value="%s">
<textarea name="comment" rows="3"></textarea>
<label><input type="checkbox" name="global"> Applies to all languages</label>
<button type="submit">Add comment</button>
</form>
`, data.Unit.ID, esc(next))
	return err
}
