// Package handler wires HTTP routes to the translation workflow. Every
// route resolves the session and viewer once, and renders through the
// response package so error handling lives in one place.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/flash"
	"github.com/glosshq/gloss/internal/logger"
	"github.com/glosshq/gloss/internal/postgres"
	"github.com/glosshq/gloss/internal/response"
	"github.com/glosshq/gloss/internal/searchcache"
	"github.com/glosshq/gloss/internal/session"
	"github.com/glosshq/gloss/internal/trans"
)

// SessionData is the per-visitor state carried by the session store:
// flash messages shown on the next page and the visitor's cached
// searches.
type SessionData struct {
	Flashes  []flash.Message `json:"flashes,omitempty"`
	Searches searchcache.Bag `json:"searches,omitempty"`
}

// UnitReader is the unit access the handlers need directly.
type UnitReader interface {
	trans.UnitStore
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Unit, error)
	SameSource(ctx context.Context, projectID uuid.UUID, languageCode, idHash string, exclude uuid.UUID) ([]postgres.SameSourceUnit, error)
	RelatedByHash(ctx context.Context, projectID uuid.UUID, idHash string) (postgres.RelatedUnit, error)
	SearchIDs(ctx context.Context, translationID uuid.UUID, q postgres.SearchQuery) ([]uuid.UUID, error)
}

// ChangeReader reads the change log for browsing and export.
type ChangeReader interface {
	List(ctx context.Context, f postgres.ChangeFilter) ([]postgres.ChangeEntry, error)
	Count(ctx context.Context, f postgres.ChangeFilter) (int, error)
	UnitIDsSince(ctx context.Context, translationID uuid.UUID, since time.Time, exclude uuid.UUID) ([]uuid.UUID, error)
}

// SuggestionReader lists pending suggestions for display.
type SuggestionReader interface {
	ListByUnit(ctx context.Context, unitID uuid.UUID) ([]domain.Suggestion, error)
}

// CommentReader reads comments for display and deletion context.
type CommentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Comment, error)
	ListForUnit(ctx context.Context, projectID uuid.UUID, idHash, languageCode string) ([]domain.Comment, error)
}

// CatalogReader resolves URL slugs and manages translation locks.
type CatalogReader interface {
	ResolveTranslation(ctx context.Context, projectSlug, componentSlug, languageCode string) (domain.TranslationScope, error)
	GetScopeByTranslationID(ctx context.Context, id uuid.UUID) (domain.TranslationScope, error)
	GetProjectBySlug(ctx context.Context, slug string) (domain.Project, error)
	GetComponentBySlug(ctx context.Context, projectID uuid.UUID, slug string) (domain.Component, error)
	GetLanguage(ctx context.Context, code string) (domain.Language, error)
	SetCommitMessage(ctx context.Context, translationID uuid.UUID, message string) error
	SetLock(ctx context.Context, translationID uuid.UUID, userID *uuid.UUID) error
}

// UserReader resolves viewers and change filter usernames.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// Handler serves the translation web UI.
type Handler struct {
	log         *slog.Logger
	sessions    *session.Manager[SessionData]
	svc         *trans.Service
	units       UnitReader
	changes     ChangeReader
	suggestions SuggestionReader
	comments    CommentReader
	catalog     CatalogReader
	users       UserReader
}

// New creates the handler.
func New(
	log *slog.Logger,
	sessions *session.Manager[SessionData],
	svc *trans.Service,
	units UnitReader,
	changes ChangeReader,
	suggestions SuggestionReader,
	comments CommentReader,
	catalog CatalogReader,
	users UserReader,
) *Handler {
	return &Handler{
		log:         log,
		sessions:    sessions,
		svc:         svc,
		units:       units,
		changes:     changes,
		suggestions: suggestions,
		comments:    comments,
		catalog:     catalog,
		users:       users,
	}
}

// reqCtx is the per-request state shared by all routes.
type reqCtx struct {
	sess session.Session[SessionData]
	user domain.User
}

// flash queues a message for the next rendered page.
func (c *reqCtx) flash(msg flash.Message) {
	data := c.sess.Data
	data.Flashes = append(data.Flashes, msg)
	c.sess.SetData(data)
}

// takeFlashes drains the queued messages for rendering.
func (c *reqCtx) takeFlashes() []flash.Message {
	msgs := c.sess.Data.Flashes
	if len(msgs) == 0 {
		return nil
	}
	data := c.sess.Data
	data.Flashes = nil
	c.sess.SetData(data)
	return msgs
}

// searches returns the session's search bag, creating it on first use.
func (c *reqCtx) searches() searchcache.Bag {
	if c.sess.Data.Searches == nil {
		data := c.sess.Data
		data.Searches = make(searchcache.Bag)
		c.sess.SetData(data)
	}
	return c.sess.Data.Searches
}

// markSearchesDirty flags the session for persistence after the bag
// was mutated in place.
func (c *reqCtx) markSearchesDirty() {
	c.sess.SetData(c.sess.Data)
}

// handlerFunc produces a response for one request.
type handlerFunc func(r *http.Request, c *reqCtx) (response.Response, error)

// handle adapts a handlerFunc into net/http: it loads the session,
// resolves the viewer, runs the function, persists session changes,
// and renders either the response or the mapped error.
func (h *Handler) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Load(w, r)
		if err != nil {
			h.log.ErrorContext(r.Context(), "failed to load session", logger.Error(err))
			h.render(w, r, response.Error(http.StatusInternalServerError, ""))
			return
		}

		c := &reqCtx{sess: sess, user: domain.Anonymous}
		if sess.IsAuthenticated() {
			user, err := h.users.GetByID(r.Context(), sess.UserID)
			switch {
			case err == nil:
				c.user = user
			case errors.Is(err, domain.ErrNotFound):
				// Stale session for a removed account, treat as guest.
			default:
				h.log.ErrorContext(r.Context(), "failed to resolve viewer", logger.Error(err))
				h.render(w, r, response.Error(http.StatusInternalServerError, ""))
				return
			}
		}

		resp, err := fn(r, c)

		if saveErr := h.sessions.Save(r.Context(), &c.sess); saveErr != nil {
			h.log.ErrorContext(r.Context(), "failed to save session", logger.Error(saveErr))
		}

		if err != nil {
			h.render(w, r, h.errorResponse(r, err))
			return
		}
		h.render(w, r, resp)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, resp response.Response) {
	if resp == nil {
		return
	}
	if err := resp(w, r); err != nil {
		h.log.ErrorContext(r.Context(), "failed to render response", logger.Error(err))
	}
}

// errorResponse maps domain errors to HTTP statuses.
func (h *Handler) errorResponse(r *http.Request, err error) response.Response {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.Error(http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrValidation):
		return response.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		return response.Error(http.StatusForbidden, "Insufficient privileges")
	case errors.Is(err, domain.ErrLocked):
		return response.Error(http.StatusLocked, "This translation is currently locked")
	default:
		h.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
		return response.Error(http.StatusInternalServerError, "")
	}
}
