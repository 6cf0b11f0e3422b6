// Package view renders the HTML pages. Components are built directly
// on the templ runtime so handlers can compose and test them like any
// other value.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/glosshq/gloss/internal/flash"
)

// esc escapes text for safe HTML interpolation.
func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps a page body with the shared chrome and flash messages.
func Layout(title string, flashes []flash.Message, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s · Gloss</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
<header class="topbar"><a href="/" class="brand">Gloss</a></header>
<main class="container">
`, esc(title)); err != nil {
			return err
		}

		for _, msg := range flashes {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-%s">%s</div>
`, esc(string(msg.Level)), esc(msg.Text)); err != nil {
				return err
			}
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}
