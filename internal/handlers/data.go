package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/filing-ideas/internal/common"
)

// DataHandler serves the generated documents from the local data directory.
type DataHandler struct {
	logger *common.Logger
	dir    string
	files  http.Handler
}

// NewDataHandler serves dir under /data/.
func NewDataHandler(logger *common.Logger, dir string) *DataHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &DataHandler{
		logger: logger,
		dir:    dir,
		files:  http.StripPrefix("/data/", http.FileServer(http.Dir(dir))),
	}
}

// Available reports whether the data directory exists.
func (h *DataHandler) Available() bool {
	info, err := os.Stat(h.dir)
	return err == nil && info.IsDir()
}

// ServeHTTP handles GET /data/*. Only .json documents are exposed and
// directory listings are refused.
func (h *DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if filepath.Ext(r.URL.Path) != ".json" || strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
