package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/config"
	"github.com/bobmcallan/filing-ideas/internal/render"
	"github.com/bobmcallan/filing-ideas/internal/view"
)

// PageHandler serves the ideas page rendered with Go templates.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	ideas     *render.IdeasRenderer
	movers    *render.MoversLookup
}

// NewPageHandler creates a page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, ideas *render.IdeasRenderer, movers *render.MoversLookup) *PageHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	pagesDir := FindPagesDir()

	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))

	return &PageHandler{
		logger:    logger,
		templates: templates,
		ideas:     ideas,
		movers:    movers,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// indexData is the view model for index.html.
type indexData struct {
	Page        string
	Version     string
	Subtitle    template.HTML
	Stats       template.HTML
	List        template.HTML
	Ticker      string
	Checked     bool
	CheckResult template.HTML
}

// ServeHTTP handles GET /.
//
// Every load refreshes the ideas board; refresh=1 forces a cache-busting
// fetch. A ticker parameter, even an empty one, runs a movers check.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snap := h.ideas.Render(r.Context(), RefreshRequested(r))

	data := indexData{
		Page:     "ideas",
		Version:  config.GetVersion(),
		Subtitle: snap.Subtitle,
		Stats:    snap.Stats,
		List:     snap.List,
	}

	query := r.URL.Query()
	if query.Has("ticker") {
		result := view.NewRegion()
		h.movers.Check(r.Context(), query.Get("ticker"), result)
		data.Checked = true
		data.Ticker = strings.TrimSpace(query.Get("ticker"))
		data.CheckResult = result.HTML()
	}

	NoStore(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.Error().Str("template", "index.html").Str("error", err.Error()).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	staticDir := filepath.Join(FindPagesDir(), "static")

	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(staticDir, path)

	// Prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absFullPath, absStaticDir+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
