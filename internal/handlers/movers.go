package handlers

import (
	"html/template"
	"net/http"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/render"
	"github.com/bobmcallan/filing-ideas/internal/view"
)

// MoversHandler runs ticker checks against the movers index.
type MoversHandler struct {
	logger *common.Logger
	lookup *render.MoversLookup
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(logger *common.Logger, lookup *render.MoversLookup) *MoversHandler {
	return &MoversHandler{logger: logger, lookup: lookup}
}

// CheckResponse is the JSON body of GET /api/movers/check.
type CheckResponse struct {
	Ticker string        `json:"ticker"`
	Result template.HTML `json:"result"`
}

// ServeHTTP handles GET /api/movers/check?ticker=.
// Outcomes, including fetch failures, are reported in the result fragment.
func (h *MoversHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	raw := r.URL.Query().Get("ticker")
	result := view.NewRegion()
	h.lookup.Check(r.Context(), raw, result)

	NoStore(w)
	WriteJSON(w, http.StatusOK, CheckResponse{
		Ticker: render.NormalizeTicker(raw),
		Result: result.HTML(),
	})
}
