package mcp

import (
	"context"
	"errors"

	"github.com/bobmcallan/filing-ideas/internal/client"
	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ListIdeasTool returns the list_ideas tool definition.
func ListIdeasTool() mcp.Tool {
	return mcp.NewTool("list_ideas",
		mcp.WithDescription("List the current filing-derived trade ideas with bucket counts."),
		mcp.WithBoolean("refresh",
			mcp.Description("Bypass cached copies and reload ideas.json"),
		),
	)
}

// ListIdeasHandler returns the list_ideas handler.
func ListIdeasHandler(source render.IdeasSource, logger *common.Logger) server.ToolHandlerFunc {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		refresh := req.GetBool("refresh", false)

		report, err := source.FetchIdeas(ctx, refresh)
		if err != nil {
			logger.Warn().Err(err).Bool("refresh", refresh).Msg("list_ideas fetch failed")
			return errorResult(render.SubtitleNoData), nil
		}
		return textResult(FormatIdeas(report)), nil
	}
}

// CheckTickerTool returns the check_ticker tool definition.
func CheckTickerTool() mcp.Tool {
	return mcp.NewTool("check_ticker",
		mcp.WithDescription("Check whether a ticker had a recent large one-day jump and whether news explained it."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker symbol, case-insensitive"),
		),
	)
}

// CheckTickerHandler returns the check_ticker handler. Every call reloads
// movers.json.
func CheckTickerHandler(source render.MoversSource, logger *common.Logger) server.ToolHandlerFunc {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticker := render.NormalizeTicker(req.GetString("ticker", ""))
		if ticker == "" {
			return errorResult(render.ResultPrompt), nil
		}

		index, err := source.FetchMovers(ctx)
		if err != nil {
			var unavailable *client.DataUnavailableError
			if errors.As(err, &unavailable) {
				return errorResult(unavailable.Error()), nil
			}
			logger.Warn().Err(err).Str("ticker", ticker).Msg("check_ticker fetch failed")
			return errorResult(render.ResultFetchFailed), nil
		}
		return textResult(FormatMoverCheck(index, ticker)), nil
	}
}
