package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/glosshq/gloss/internal/domain"
)

// ZenUnit is one editable row in the zen editor.
type ZenUnit struct {
	Unit domain.Unit
	// Offset is the unit's absolute position in the search result,
	// posted back on save so edits land on the right unit.
	Offset int
}

// ZenData feeds the distraction-free editor.
type ZenData struct {
	Scope domain.TranslationScope
	Units []ZenUnit
	SID   string
	// NextOffset is where the following window starts; negative when
	// the search is exhausted.
	NextOffset   int
	CanTranslate bool
}

// ZenPage renders the zen editor shell with the first window of units.
func ZenPage(data ZenData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Zen · %s / %s · %s</h1>
<div id="zen-units">
`, esc(data.Scope.Project.Name), esc(data.Scope.Component.Name), esc(data.Scope.Language.Name)); err != nil {
			return err
		}
		if err := ZenUnits(data).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n")
		return err
	})
}

// ZenUnits renders one window of zen rows. It is also served alone for
// the infinite-scroll load endpoint.
func ZenUnits(data ZenData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, row := range data.Units {
			fuzzyChecked := ""
			if row.Unit.Fuzzy {
				fuzzyChecked = " checked"
			}
			if _, err := fmt.Fprintf(w, `<form method="post" action="save/?sid=%s&offset=%d" class="zen-unit">
<div class="source"><pre>%s</pre></div>
<textarea name="target" rows="2" lang="%s">%s</textarea>
<label><input type="checkbox" name="fuzzy"%s> Needs editing</label>
`, esc(data.SID), row.Offset, esc(row.Unit.Source),
				esc(data.Scope.Language.Code), esc(row.Unit.Target), fuzzyChecked); err != nil {
				return err
			}
			if data.CanTranslate {
				if _, err := io.WriteString(w, "<button type=\"submit\">Save</button>\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</form>\n"); err != nil {
				return err
			}
		}

		if data.NextOffset >= 0 {
			if _, err := fmt.Fprintf(w, `<a class="zen-more" href="load/?sid=%s&offset=%d">Load more</a>
`, esc(data.SID), data.NextOffset); err != nil {
				return err
			}
		}
		return nil
	})
}
