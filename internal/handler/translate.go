package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/glosshq/gloss/internal/binder"
	"github.com/glosshq/gloss/internal/checks"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/flash"
	"github.com/glosshq/gloss/internal/policy"
	"github.com/glosshq/gloss/internal/response"
	"github.com/glosshq/gloss/internal/view"
)

// resolveScope turns URL path values into a translation scope.
func (h *Handler) resolveScope(r *http.Request) (domain.TranslationScope, error) {
	return h.catalog.ResolveTranslation(r.Context(),
		r.PathValue("project"), r.PathValue("component"), r.PathValue("lang"))
}

// Translate renders the unit editor at the current search position.
func (h *Handler) Translate(r *http.Request, c *reqCtx) (response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, err
	}

	state, redirect, err := h.resolveSearch(r, c, scope)
	if err != nil || redirect != nil {
		return redirect, err
	}

	unit, err := h.units.GetByID(r.Context(), state.entry.UnitAt(state.offset))
	if errors.Is(err, domain.ErrNotFound) {
		// The unit disappeared since the search was cached.
		c.searches().Delete(state.entry.ID.String())
		c.markSearchesDirty()
		c.flash(flash.Warning("The string is no longer available."))
		return response.Redirect(translateBase(scope)), nil
	}
	if err != nil {
		return nil, err
	}

	data, err := h.translateData(r, c, scope, state, unit)
	if err != nil {
		return nil, err
	}
	page := view.Layout(scope.Component.Name, c.takeFlashes(), view.TranslatePage(data))
	return response.Templ(page), nil
}

func (h *Handler) translateData(r *http.Request, c *reqCtx, scope domain.TranslationScope, state searchState, unit domain.Unit) (view.TranslateData, error) {
	ctx := r.Context()
	sid := state.entry.ID.String()

	suggestions, err := h.suggestions.ListByUnit(ctx, unit.ID)
	if err != nil {
		return view.TranslateData{}, err
	}
	comments, err := h.comments.ListForUnit(ctx, scope.Project.ID, unit.IDHash, scope.Language.Code)
	if err != nil {
		return view.TranslateData{}, err
	}
	others, err := h.units.SameSource(ctx, scope.Project.ID, scope.Language.Code, unit.IDHash, unit.ID)
	if err != nil {
		return view.TranslateData{}, err
	}

	data := view.TranslateData{
		Scope:         scope,
		Unit:          unit,
		SearchName:    state.entry.Name,
		Position:      state.offset + 1,
		Total:         len(state.entry.UnitIDs),
		SID:           sid,
		Offset:        state.offset,
		FailingChecks: checks.Default().Run(unit),
		CanTranslate:  policy.Allow(c.user, policy.CapTranslate),
		CanSuggest:    policy.Allow(c.user, policy.CapSuggest),
		Locked:        !scope.Writable(c.user.ID),
	}

	if state.offset > 0 {
		data.FirstURL = translateURL(scope, sid, 0)
		data.PrevURL = translateURL(scope, sid, state.offset-1)
	}
	if last := len(state.entry.UnitIDs) - 1; state.offset < last {
		data.NextURL = translateURL(scope, sid, state.offset+1)
		data.LastURL = translateURL(scope, sid, last)
	}

	for _, s := range suggestions {
		data.Suggestions = append(data.Suggestions, view.SuggestionRow{
			Suggestion: s,
			Username:   h.username(r, s.UserID),
			CanAccept:  policy.Allow(c.user, policy.CapAcceptSuggestion),
			CanDelete:  policy.AllowSuggestionDelete(c.user, s),
			CanVote:    policy.Allow(c.user, policy.CapVoteSuggestion) && c.user.IsAuthenticated(),
		})
	}
	for _, cm := range comments {
		data.Comments = append(data.Comments, view.CommentRow{
			Comment:   cm,
			Username:  h.username(r, &cm.UserID),
			CanDelete: policy.Allow(c.user, policy.CapDeleteComment),
		})
	}
	for _, other := range others {
		data.Others = append(data.Others, view.OtherRow{
			ComponentName: other.ComponentName,
			Target:        other.Target,
			URL:           checksumURL(scope.Project.Slug, other.ComponentSlug, scope.Language.Code, other.IDHash),
		})
	}
	return data, nil
}

// username resolves a user id for display, empty for anonymous or
// removed accounts.
func (h *Handler) username(r *http.Request, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	user, err := h.users.GetByID(r.Context(), *id)
	if err != nil {
		return ""
	}
	return user.Username
}

// translateForm is the unit editor post body. Action selects what the
// post does; the remaining fields belong to one action each.
type translateForm struct {
	Action     string `form:"action"`
	Target     string `form:"target"`
	Fuzzy      bool   `form:"fuzzy"`
	Suggestion string `form:"suggestion"`
	Merge      string `form:"merge"`
	Revert     string `form:"revert"`
	Message    string `form:"commit_message"`
	// Content is a honeypot. Real forms leave it empty.
	Content string `form:"content"`
}

// TranslatePost dispatches the unit editor actions.
func (h *Handler) TranslatePost(r *http.Request, c *reqCtx) (response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, err
	}

	var form translateForm
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}
	if strings.TrimSpace(form.Content) != "" {
		c.flash(flash.Error("The form submission was rejected."))
		return response.SeeOther(translateBase(scope)), nil
	}

	state, redirect, err := h.resolveSearch(r, c, scope)
	if err != nil || redirect != nil {
		return redirect, err
	}
	unitID := state.entry.UnitAt(state.offset)
	sid := state.entry.ID.String()
	stayURL := translateURL(scope, sid, state.offset)
	nextURL := translateURL(scope, sid, state.offset+1)

	switch form.Action {
	case "save":
		res, err := h.svc.Translate(r.Context(), scope, c.user, unitID, form.Target, form.Fuzzy)
		if err != nil {
			return h.postFailure(c, stayURL, err)
		}
		for _, fix := range res.AppliedFixes {
			c.flash(flash.Info(fmt.Sprintf("Automatic fixup applied: %s.", fix)))
		}
		if res.Stay {
			c.flash(flash.Warning("The translation has failing quality checks."))
			return response.SeeOther(stayURL), nil
		}
		return response.SeeOther(nextURL), nil

	case "suggest":
		res, err := h.svc.Suggest(r.Context(), scope, c.user, unitID, form.Target)
		if err != nil {
			return h.postFailure(c, stayURL, err)
		}
		if res.Nudge {
			c.flash(flash.Info("There is currently no active translator here. Consider translating directly."))
		}
		if !res.Created {
			c.flash(flash.Info("Your suggestion already exists!"))
			return response.SeeOther(stayURL), nil
		}
		return response.SeeOther(nextURL), nil

	case "accept", "accept_edit":
		id, err := parseID(form.Suggestion)
		if err != nil {
			return nil, err
		}
		if _, err := h.svc.AcceptSuggestion(r.Context(), scope, c.user, id); err != nil {
			return h.postFailure(c, stayURL, err)
		}
		if form.Action == "accept_edit" {
			return response.SeeOther(stayURL), nil
		}
		return response.SeeOther(nextURL), nil

	case "delete":
		id, err := parseID(form.Suggestion)
		if err != nil {
			return nil, err
		}
		if err := h.svc.DeleteSuggestion(r.Context(), scope, c.user, id); err != nil {
			return h.postFailure(c, stayURL, err)
		}
		return response.SeeOther(stayURL), nil

	case "upvote", "downvote":
		id, err := parseID(form.Suggestion)
		if err != nil {
			return nil, err
		}
		if _, err := h.svc.VoteSuggestion(r.Context(), scope, c.user, id, form.Action == "upvote"); err != nil {
			return h.postFailure(c, stayURL, err)
		}
		return response.SeeOther(stayURL), nil

	case "merge":
		id, err := parseID(form.Merge)
		if err != nil {
			return nil, err
		}
		if _, err := h.svc.Merge(r.Context(), scope, c.user, unitID, id); err != nil {
			return h.postFailure(c, stayURL, err)
		}
		return response.SeeOther(nextURL), nil

	case "revert":
		id, err := parseID(form.Revert)
		if err != nil {
			return nil, err
		}
		if _, err := h.svc.Revert(r.Context(), scope, c.user, unitID, id); err != nil {
			return h.postFailure(c, stayURL, err)
		}
		return response.SeeOther(stayURL), nil

	case "commit_message":
		if !c.user.IsAuthenticated() {
			return h.postFailure(c, stayURL, fmt.Errorf("commit message: %w", domain.ErrPermissionDenied))
		}
		if err := h.catalog.SetCommitMessage(r.Context(), scope.Translation.ID, strings.TrimSpace(form.Message)); err != nil {
			return nil, err
		}
		c.flash(flash.Success("Commit message stored."))
		return response.SeeOther(stayURL), nil
	}

	return nil, fmt.Errorf("unknown action %q: %w", form.Action, domain.ErrValidation)
}

// postFailure turns expected workflow errors into a flash and redirect
// back to the unit, so the viewer keeps their place. Unexpected errors
// propagate to the error page.
func (h *Handler) postFailure(c *reqCtx, backURL string, err error) (response.Response, error) {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		c.flash(flash.Error("Insufficient privileges for this operation."))
	case errors.Is(err, domain.ErrLocked):
		c.flash(flash.Error("This translation is currently locked."))
	case errors.Is(err, domain.ErrValidation):
		c.flash(flash.Error(err.Error()))
	case errors.Is(err, domain.ErrHashMismatch):
		c.flash(flash.Error("The string has changed meanwhile, please check again."))
	default:
		return nil, err
	}
	return response.SeeOther(backURL), nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, domain.ErrValidation)
	}
	return id, nil
}
