package server

import "net/http"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Ideas page
	mux.Handle("/", s.app.PageHandler)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", s.app.PageHandler.StaticFileHandler)

	// Generated documents
	if s.app.DataHandler != nil {
		mux.Handle("/data/", s.app.DataHandler)
	}

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.Handle("/api/ideas", s.app.IdeasHandler)
	mux.Handle("/api/movers/check", s.app.MoversHandler)
	mux.Handle("/api/health", s.app.HealthHandler)
	mux.Handle("/api/version", s.app.VersionHandler)
	mux.Handle("/api/feed-health", s.app.FeedHealth)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
