// Package response provides composable HTTP responses. Handlers return
// a Response describing what to send; the adapter in the handler
// package executes it and routes rendering errors to one place.
package response

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Response renders an HTTP response. It sets headers, status code, and
// body. Rendering errors bubble up to the adapter's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// templComponent is satisfied by templ components.
type templComponent interface {
	Render(ctx context.Context, w io.Writer) error
}

// Templ renders an HTML page from a templ component with 200 OK.
func Templ(component templComponent) Response {
	return TemplWithStatus(component, http.StatusOK)
}

// TemplWithStatus renders a templ component with a custom status code.
func TemplWithStatus(component templComponent, status int) Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := component.Render(r.Context(), w); err != nil {
			return fmt.Errorf("render component: %w", err)
		}
		return nil
	}
}

// Redirect sends a 302 Found to the given URL.
func Redirect(url string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}
}

// SeeOther sends a 303 See Other. Used after successful form posts so
// a reload does not resubmit.
func SeeOther(url string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusSeeOther)
		return nil
	}
}

// String sends a plain text body with the given status.
func String(status int, body string) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, err := io.WriteString(w, body)
		return err
	}
}

// Attachment streams a file download. The write callback produces the
// body, so exports never buffer fully in memory.
func Attachment(filename, contentType string, write func(io.Writer) error) Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		return write(w)
	}
}

// Error sends a plain error page with the given status.
func Error(status int, message string) Response {
	if message == "" {
		message = http.StatusText(status)
	}
	return String(status, message)
}
