package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/glosshq/gloss/internal/binder"
	"github.com/glosshq/gloss/internal/domain"
	"github.com/glosshq/gloss/internal/policy"
	"github.com/glosshq/gloss/internal/response"
	"github.com/glosshq/gloss/internal/view"
)

// zenWindowSize is how many units one zen window loads.
const zenWindowSize = 20

// Zen renders the distraction-free editor with the first window of the
// search.
func (h *Handler) Zen(r *http.Request, c *reqCtx) (response.Response, error) {
	data, redirect, err := h.zenData(r, c)
	if err != nil || redirect != nil {
		return redirect, err
	}
	page := view.Layout("Zen · "+data.Scope.Component.Name, c.takeFlashes(), view.ZenPage(data))
	return response.Templ(page), nil
}

// ZenLoad serves the next window of units for infinite scrolling. It
// renders only the rows, the page is already on screen.
func (h *Handler) ZenLoad(r *http.Request, c *reqCtx) (response.Response, error) {
	data, redirect, err := h.zenData(r, c)
	if err != nil || redirect != nil {
		return redirect, err
	}
	return response.Templ(view.ZenUnits(data)), nil
}

func (h *Handler) zenData(r *http.Request, c *reqCtx) (view.ZenData, response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return view.ZenData{}, nil, err
	}

	state, redirect, err := h.resolveSearch(r, c, scope)
	if err != nil || redirect != nil {
		return view.ZenData{}, redirect, err
	}

	window := state.entry.Window(state.offset, zenWindowSize)
	units, err := h.units.ListByIDs(r.Context(), window)
	if err != nil {
		return view.ZenData{}, nil, err
	}

	// Offsets must track the search result, not the fetched slice:
	// units deleted since caching leave holes.
	position := make(map[string]int, len(window))
	for i, id := range window {
		position[id.String()] = state.offset + i
	}

	data := view.ZenData{
		Scope:        scope,
		SID:          state.entry.ID.String(),
		NextOffset:   -1,
		CanTranslate: policy.Allow(c.user, policy.CapTranslate) && scope.Writable(c.user.ID),
	}
	for _, unit := range units {
		data.Units = append(data.Units, view.ZenUnit{
			Unit:   unit,
			Offset: position[unit.ID.String()],
		})
	}
	if !state.entry.LastSection(state.offset, zenWindowSize) {
		data.NextOffset = state.offset + zenWindowSize
	}
	return data, nil, nil
}

// zenSaveForm is one zen row submission.
type zenSaveForm struct {
	Target string `form:"target"`
	Fuzzy  bool   `form:"fuzzy"`
}

// ZenSave saves a single unit edited in the zen editor and reports the
// result as plain text for inline display.
func (h *Handler) ZenSave(r *http.Request, c *reqCtx) (response.Response, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, err
	}

	state, redirect, err := h.resolveSearch(r, c, scope)
	if err != nil || redirect != nil {
		return redirect, err
	}

	var form zenSaveForm
	if err := binder.Form(r, &form); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrValidation)
	}

	res, err := h.svc.Translate(r.Context(), scope, c.user, state.entry.UnitAt(state.offset), form.Target, form.Fuzzy)
	if err != nil {
		return nil, err
	}

	if len(res.FailingChecks) > 0 {
		return response.String(http.StatusOK,
			"Saved, failing checks: "+strings.Join(res.FailingChecks, ", ")), nil
	}
	return response.String(http.StatusOK, "Saved"), nil
}
