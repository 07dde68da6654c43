package app

import (
	"github.com/bobmcallan/filing-ideas/internal/cache"
	"github.com/bobmcallan/filing-ideas/internal/client"
	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/config"
	"github.com/bobmcallan/filing-ideas/internal/handlers"
	"github.com/bobmcallan/filing-ideas/internal/mcp"
	"github.com/bobmcallan/filing-ideas/internal/render"
	"github.com/bobmcallan/filing-ideas/internal/view"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Cache  *cache.ResponseCache
	Feed   *client.FeedClient
	Board  *view.Board
	Ideas  *render.IdeasRenderer
	Movers *render.MoversLookup

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	IdeasHandler   *handlers.IdeasHandler
	MoversHandler  *handlers.MoversHandler
	DataHandler    *handlers.DataHandler
	HealthHandler  *handlers.HealthHandler
	FeedHealth     *handlers.FeedHealthHandler
	VersionHandler *handlers.VersionHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.initFeed()
	a.initHandlers()

	logger.Info().
		Str("base_url", cfg.FeedBaseURL()).
		Bool("cache_enabled", a.Cache.Enabled()).
		Msg("application initialization complete")

	return a, nil
}

// initFeed builds the document client and the renderers that consume it.
func (a *App) initFeed() {
	a.Cache = cache.New(a.Config.Cache.TTL(), a.Config.Cache.MaxEntries)

	a.Feed = client.NewFeedClient(a.Config.FeedBaseURL(),
		client.WithTimeout(a.Config.Feed.Timeout()),
		client.WithRateLimit(a.Config.Feed.RateLimit),
		client.WithPaths(a.Config.Feed.IdeasPath, a.Config.Feed.MoversPath),
		client.WithCache(a.Cache),
		client.WithLogger(a.Logger),
	)

	a.Board = view.NewBoard()
	a.Ideas = render.NewIdeasRenderer(a.Feed, a.Board, a.Logger)
	a.Movers = render.NewMoversLookup(a.Feed, a.Logger)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.PageHandler = handlers.NewPageHandler(a.Logger, a.Ideas, a.Movers)
	a.IdeasHandler = handlers.NewIdeasHandler(a.Logger, a.Ideas)
	a.MoversHandler = handlers.NewMoversHandler(a.Logger, a.Movers)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.FeedHealth = handlers.NewFeedHealthHandler(a.Logger, a.Config.FeedBaseURL(), a.Config.Feed.IdeasPath, a.Config.Feed.MoversPath)

	if dir := a.Config.Feed.DataDir; dir != "" {
		a.DataHandler = handlers.NewDataHandler(a.Logger, dir)
		if !a.DataHandler.Available() {
			a.Logger.Warn().Str("data_dir", dir).Msg("data directory not found, /data/ will return 404 until the generator runs")
		}
	}

	a.MCPHandler = mcp.NewHandler(a.Feed, a.Feed, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
