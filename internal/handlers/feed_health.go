package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/filing-ideas/internal/common"
)

const feedProbeTimeout = 3 * time.Second

// FeedHealthHandler reports whether the generated documents are reachable
// at the configured base URL.
type FeedHealthHandler struct {
	logger    *common.Logger
	baseURL   string
	documents []string
	client    *http.Client
}

// NewFeedHealthHandler creates a handler probing each document below baseURL.
func NewFeedHealthHandler(logger *common.Logger, baseURL string, documents ...string) *FeedHealthHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &FeedHealthHandler{
		logger:    logger,
		baseURL:   strings.TrimRight(baseURL, "/"),
		documents: documents,
		client:    &http.Client{Timeout: feedProbeTimeout},
	}
}

// FeedHealth is the JSON body of GET /api/feed-health.
type FeedHealth struct {
	Status    string            `json:"status"`
	Documents map[string]string `json:"documents"`
}

// ServeHTTP handles GET /api/feed-health. It answers 200 when every document
// is reachable and 503 otherwise.
func (h *FeedHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), feedProbeTimeout)
	defer cancel()

	health := FeedHealth{Status: "ok", Documents: make(map[string]string, len(h.documents))}
	for _, doc := range h.documents {
		state := h.probe(ctx, doc)
		health.Documents[doc] = state
		if state != "ok" {
			health.Status = "degraded"
		}
	}

	NoStore(w)
	if health.Status != "ok" {
		h.logger.Debug().Str("base_url", h.baseURL).Msg("feed documents unavailable")
		WriteJSON(w, http.StatusServiceUnavailable, health)
		return
	}
	WriteJSON(w, http.StatusOK, health)
}

// probe returns "ok", "missing" (non-2xx) or "down" (transport failure).
func (h *FeedHealthHandler) probe(ctx context.Context, doc string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.baseURL+"/"+strings.TrimLeft(doc, "/"), nil)
	if err != nil {
		return "down"
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := h.client.Do(req)
	if err != nil {
		return "down"
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return "ok"
	}
	return "missing"
}
