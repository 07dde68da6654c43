package handlers

import (
	"net/http"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/render"
)

// IdeasHandler exposes the ideas board as JSON fragments.
type IdeasHandler struct {
	logger   *common.Logger
	renderer *render.IdeasRenderer
}

// NewIdeasHandler creates a new ideas handler.
func NewIdeasHandler(logger *common.Logger, renderer *render.IdeasRenderer) *IdeasHandler {
	return &IdeasHandler{logger: logger, renderer: renderer}
}

// ServeHTTP handles GET /api/ideas[?refresh=1].
//
// The response carries this request's own outcome, including the
// "No data yet" subtitle when the fetch failed.
func (h *IdeasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snap := h.renderer.Render(r.Context(), RefreshRequested(r))

	NoStore(w)
	WriteJSON(w, http.StatusOK, snap)
}
