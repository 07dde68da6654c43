package render

import (
	"context"
	"fmt"
	"html/template"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/models"
	"github.com/bobmcallan/filing-ideas/internal/view"
)

const (
	// SubtitleUpdating is shown while an ideas fetch is in flight.
	SubtitleUpdating = "Updating…"
	// SubtitleNoData is shown when ideas.json cannot be loaded.
	SubtitleNoData = "No data yet (ideas.json missing)"
)

// IdeasSource provides the ideas document.
type IdeasSource interface {
	FetchIdeas(ctx context.Context, forceRefresh bool) (*models.IdeaReport, error)
}

// IdeasRenderer populates the subtitle, stats and list regions of a board.
type IdeasRenderer struct {
	source IdeasSource
	board  *view.Board
	logger *common.Logger
}

// NewIdeasRenderer creates a renderer writing into board.
func NewIdeasRenderer(source IdeasSource, board *view.Board, logger *common.Logger) *IdeasRenderer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &IdeasRenderer{source: source, board: board, logger: logger}
}

// Render fetches ideas.json and returns the regions for this request.
//
// While the fetch is in flight the shared subtitle reads "Updating…". The
// returned snapshot always reflects this call's own outcome. On failure only
// the subtitle differs from the last settled stats and list. The shared board
// takes the outcome only if no newer Render started in the meantime, and a
// call whose context was cancelled leaves the board as it found it.
func (r *IdeasRenderer) Render(ctx context.Context, forceRefresh bool) view.Snapshot {
	token := r.board.Begin(view.Text(SubtitleUpdating))

	report, err := r.source.FetchIdeas(ctx, forceRefresh)
	if err != nil {
		if ctx.Err() != nil {
			r.logger.Debug().Err(err).Msg("ideas request abandoned")
			r.board.Abandon(token)
			return r.unavailable()
		}
		r.logger.Warn().Err(err).Bool("force_refresh", forceRefresh).Msg("ideas unavailable")
		return r.fail(token)
	}

	stats, list, err := renderReport(report)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to render ideas")
		return r.fail(token)
	}

	snap := view.Snapshot{
		Subtitle: view.Text(Subtitle(report)),
		Stats:    stats,
		List:     list,
	}
	applied := r.board.Apply(token, func(b *view.Board) {
		b.Subtitle.Set(snap.Subtitle)
		b.Stats.Set(snap.Stats)
		b.List.Set(snap.List)
	})
	if !applied {
		r.logger.Debug().Int("ideas", len(report.Ideas)).Msg("superseded ideas response not settled on board")
	}
	return snap
}

// fail settles the no-data subtitle and returns it with the prior regions.
func (r *IdeasRenderer) fail(token uint64) view.Snapshot {
	r.board.Apply(token, func(b *view.Board) {
		b.Subtitle.SetText(SubtitleNoData)
	})
	return r.unavailable()
}

func (r *IdeasRenderer) unavailable() view.Snapshot {
	snap := r.board.Snapshot()
	snap.Subtitle = view.Text(SubtitleNoData)
	return snap
}

func renderReport(report *models.IdeaReport) (stats, list template.HTML, err error) {
	stats, err = execute(statsTmpl, report.BucketCounts.Entries())
	if err != nil {
		return "", "", err
	}
	list, err = execute(listTmpl, report.Ideas)
	if err != nil {
		return "", "", err
	}
	return stats, list, nil
}

// Subtitle composes the status line for a report.
func Subtitle(report *models.IdeaReport) string {
	return fmt.Sprintf("Last update: %s • NASDAQ: %d • Ideas: %d",
		report.GeneratedUTC, report.UniverseCount, len(report.Ideas))
}
