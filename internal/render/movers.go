package render

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/bobmcallan/filing-ideas/internal/client"
	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/models"
	"github.com/bobmcallan/filing-ideas/internal/view"
)

const (
	// ResultPrompt is shown when the ticker input is blank.
	ResultPrompt = "Enter a ticker."
	// ResultChecking is shown while movers.json is being fetched.
	ResultChecking = "Checking…"
	// ResultFetchFailed is shown for transport or decode failures.
	ResultFetchFailed = "Could not load movers.json."
)

// MoversSource provides the movers document.
type MoversSource interface {
	FetchMovers(ctx context.Context) (*models.MoversIndex, error)
}

// MoversLookup checks tickers against the movers index.
type MoversLookup struct {
	source MoversSource
	logger *common.Logger
}

// NewMoversLookup creates a lookup backed by source.
func NewMoversLookup(source MoversSource, logger *common.Logger) *MoversLookup {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &MoversLookup{source: source, logger: logger}
}

// NormalizeTicker trims whitespace and upper-cases the input.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Check looks up rawInput in a freshly fetched movers index and writes the
// outcome to out. A blank input writes a prompt without any network activity.
func (l *MoversLookup) Check(ctx context.Context, rawInput string, out *view.Region) {
	ticker := NormalizeTicker(rawInput)
	if ticker == "" {
		out.SetText(ResultPrompt)
		return
	}

	out.SetText(ResultChecking)

	index, err := l.source.FetchMovers(ctx)
	if err != nil {
		var unavailable *client.DataUnavailableError
		if errors.As(err, &unavailable) {
			l.logger.Info().Int("status", unavailable.StatusCode).Msg("movers index not published")
			out.SetText(unavailable.Error())
			return
		}
		l.logger.Warn().Err(err).Str("ticker", ticker).Msg("movers check failed")
		out.SetText(ResultFetchFailed)
		return
	}

	content, err := RenderMoverResult(index, ticker)
	if err != nil {
		l.logger.Error().Err(err).Str("ticker", ticker).Msg("failed to render movers result")
		out.SetText(ResultFetchFailed)
		return
	}

	out.Set(content)
}

// RenderMoverResult renders the detail panel for ticker, or the not-found
// message quoting the index thresholds. ticker must already be normalized.
func RenderMoverResult(index *models.MoversIndex, ticker string) (template.HTML, error) {
	record, ok := index.Find(ticker)
	if !ok {
		return execute(notFoundTmpl, struct {
			Threshold float64
			Ticker    string
			Lookback  int
		}{
			Threshold: index.JumpThresholdPct(),
			Ticker:    ticker,
			Lookback:  index.Lookback(),
		})
	}
	return execute(moverTmpl, record)
}
