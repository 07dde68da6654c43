package mcp

import (
	"net/http"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/config"
	"github.com/bobmcallan/filing-ideas/internal/render"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	server     *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewHandler registers the ideas tools against ideas and movers.
func NewHandler(ideas render.IdeasSource, movers render.MoversSource, logger *common.Logger) *Handler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	mcpSrv := mcpserver.NewMCPServer(
		"filing-ideas",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	registered := []string{}
	add := func(t toolDef) {
		mcpSrv.AddTool(t.tool, t.handler)
		registered = append(registered, t.tool.Name)
	}
	add(toolDef{ListIdeasTool(), ListIdeasHandler(ideas, logger)})
	add(toolDef{CheckTickerTool(), CheckTickerHandler(movers, logger)})
	add(toolDef{VersionTool(), VersionToolHandler()})

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(registered)).
		Msg("MCP handler initialized")

	return &Handler{
		server:     mcpSrv,
		streamable: streamable,
		logger:     logger,
		tools:      registered,
	}
}

// Tools returns the registered tool names in registration order.
func (h *Handler) Tools() []string {
	out := make([]string, len(h.tools))
	copy(out, h.tools)
	return out
}

// Server returns the underlying MCP server, for transports other than HTTP.
func (h *Handler) Server() *mcpserver.MCPServer {
	return h.server
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
