package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/binder"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/flash"
	"github.com/glosshq/gloss/internal/response"
)

// commentForm posts a new comment on a source string.
type commentForm struct {
	Comment string `form:"comment"`
	Global  bool   `form:"global"`
	Next    string `form:"next"`
}

// CommentPost adds a comment to the unit named by the path id.
func (h *Handler) CommentPost(r *http.Request, c *reqCtx) (response.Response, error) {
	unitID, err := parseID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	unit, err := h.units.GetByID(r.Context(), unitID)
	if err != nil {
		return nil, err
	}
	scope, err := h.catalog.GetScopeByTranslationID(r.Context(), unit.TranslationID)
	if err != nil {
		return nil, err
	}

	var form commentForm
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	fallback := checksumURL(scope.Project.Slug, scope.Component.Slug, scope.Language.Code, unit.IDHash)
	if _, err := h.svc.AddComment(r.Context(), scope, c.user, unit, form.Comment, form.Global); err != nil {
		return h.postFailure(c, nextOr(form.Next, fallback), err)
	}
	c.flash(flash.Success("Comment added."))
	return response.SeeOther(nextOr(form.Next, fallback)), nil
}

// CommentDelete removes the comment named by the path id. Without a
// posted next URL the redirect falls back to a unit still carrying the
// comment's source string, or to the change log when none is left.
func (h *Handler) CommentDelete(r *http.Request, c *reqCtx) (response.Response, error) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}

	var form struct {
		Translation string `form:"translation"`
		Next        string `form:"next"`
	}
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	comment, err := h.comments.GetByID(r.Context(), id)
	if err != nil {
		return nil, err
	}

	var translationID *uuid.UUID
	fallback := "/changes/"
	rel, err := h.units.RelatedByHash(r.Context(), comment.ProjectID, comment.IDHash)
	switch {
	case err == nil:
		fallback = checksumURL(rel.ProjectSlug, rel.ComponentSlug, rel.LanguageCode, comment.IDHash)
		translationID = &rel.TranslationID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	// The viewing translation, when posted, wins as the home of the
	// change log entry.
	if tid, err := parseID(form.Translation); err == nil {
		if scope, err := h.catalog.GetScopeByTranslationID(r.Context(), tid); err == nil && scope.Project.ID == comment.ProjectID {
			translationID = &scope.Translation.ID
		}
	}

	backURL := nextOr(form.Next, fallback)
	if _, err := h.svc.DeleteComment(r.Context(), c.user, id, translationID); err != nil {
		return h.postFailure(c, backURL, err)
	}
	c.flash(flash.Success("Comment removed."))
	return response.SeeOther(backURL), nil
}

// nextOr picks the posted next URL when it is a safe local path.
func nextOr(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}

// replaceForm posts a search and replace run.
type replaceForm struct {
	Search  string `form:"search"`
	Replace string `form:"replacement"`
}

// Replace runs search and replace across the project, component or
// single translation named in the URL. Each rewritten unit gets its
// own change entry.
func (h *Handler) Replace(r *http.Request, c *reqCtx) (response.Response, error) {
	project, err := h.catalog.GetProjectBySlug(r.Context(), r.PathValue("project"))
	if err != nil {
		return nil, err
	}
	scope := domain.ReplaceScope{ProjectID: project.ID}
	backURL := "/changes/?project=" + project.Slug

	if componentSlug := r.PathValue("component"); componentSlug != "" {
		component, err := h.catalog.GetComponentBySlug(r.Context(), project.ID, componentSlug)
		if err != nil {
			return nil, err
		}
		scope = domain.ReplaceScope{ComponentID: component.ID}
		backURL += "&component=" + component.Slug

		if lang := r.PathValue("lang"); lang != "" {
			ts, err := h.catalog.ResolveTranslation(r.Context(), project.Slug, component.Slug, lang)
			if err != nil {
				return nil, err
			}
			scope = domain.ReplaceScope{TranslationID: ts.Translation.ID}
			backURL += "&lang=" + lang
		}
	}

	var form replaceForm
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	updated, err := h.svc.Replace(r.Context(), scope, c.user, form.Search, form.Replace)
	if err != nil {
		return h.postFailure(c, backURL, err)
	}
	c.flash(flash.Success(fmt.Sprintf("Search and replace completed, %d strings updated.", updated)))
	return response.SeeOther(backURL), nil
}

// autoTranslateForm posts an automatic translation run.
type autoTranslateForm struct {
	Component string `form:"component"`
	Overwrite bool   `form:"overwrite"`
}

// AutoTranslate copies translations from a sibling component.
func (h *Handler) AutoTranslate(r *http.Request, c *reqCtx) (response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, err
	}

	var form autoTranslateForm
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	updated, err := h.svc.AutoTranslate(r.Context(), scope, c.user, form.Component, form.Overwrite)
	if err != nil {
		return h.postFailure(c, translateBase(scope), err)
	}
	c.flash(flash.Success(fmt.Sprintf("Automatic translation completed, %d strings updated.", updated)))
	return response.SeeOther(translateBase(scope)), nil
}

// Lock acquires the translation edit lock for the viewer.
func (h *Handler) Lock(r *http.Request, c *reqCtx) (response.Response, error) {
	return h.setLock(r, c, true)
}

// Unlock releases the viewer's translation edit lock.
func (h *Handler) Unlock(r *http.Request, c *reqCtx) (response.Response, error) {
	return h.setLock(r, c, false)
}

func (h *Handler) setLock(r *http.Request, c *reqCtx, acquire bool) (response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, err
	}
	if !c.user.IsAuthenticated() {
		return nil, fmt.Errorf("lock: %w", domain.ErrPermissionDenied)
	}
	if scope.Translation.IsUserLocked(c.user.ID) {
		c.flash(flash.Error("This translation is locked by another user."))
		return response.SeeOther(translateBase(scope)), nil
	}

	var userID *uuid.UUID
	if acquire {
		userID = &c.user.ID
		c.flash(flash.Success("Translation is now locked for you."))
	} else {
		c.flash(flash.Success("Translation is now open for translation updates."))
	}
	if err := h.catalog.SetLock(r.Context(), scope.Translation.ID, userID); err != nil {
		return nil, err
	}
	return response.SeeOther(translateBase(scope)), nil
}
