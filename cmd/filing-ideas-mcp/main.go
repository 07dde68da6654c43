// Command filing-ideas-mcp exposes the ideas tools over MCP without the web
// page, either on stdio (for desktop clients) or streamable HTTP.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/bobmcallan/filing-ideas/internal/cache"
	"github.com/bobmcallan/filing-ideas/internal/client"
	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/config"
	"github.com/bobmcallan/filing-ideas/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	stdio := flag.Bool("stdio", false, "Use stdio transport (for desktop MCP clients)")
	configFile := flag.String("config", "filing-ideas.toml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	var paths []string
	if _, err := os.Stat(*configFile); err == nil {
		paths = append(paths, *configFile)
	}

	cfg, err := config.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *port, "")

	logger := common.NewLoggerFromConfig(cfg.Logging)

	feed := newFeedClient(cfg, logger)
	handler := mcp.NewHandler(feed, feed, logger)

	if *stdio {
		if err := server.ServeStdio(handler.Server()); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := server.NewStreamableHTTPServer(handler.Server(),
		server.WithStateLess(true),
	)

	logger.Info().Str("address", addr).Msg("starting MCP streamable HTTP")

	if err := httpServer.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

func newFeedClient(cfg *config.Config, logger *common.Logger) *client.FeedClient {
	return client.NewFeedClient(cfg.FeedBaseURL(),
		client.WithTimeout(cfg.Feed.Timeout()),
		client.WithRateLimit(cfg.Feed.RateLimit),
		client.WithPaths(cfg.Feed.IdeasPath, cfg.Feed.MoversPath),
		client.WithCache(cache.New(cfg.Cache.TTL(), cfg.Cache.MaxEntries)),
		client.WithLogger(logger),
	)
}
