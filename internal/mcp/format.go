package mcp

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/models"
	"github.com/bobmcallan/filing-ideas/internal/render"
)

// FormatIdeas renders a report as plain text for tool output.
func FormatIdeas(report *models.IdeaReport) string {
	var b strings.Builder
	b.WriteString(render.Subtitle(report))
	b.WriteString("\n")

	if entries := report.BucketCounts.Entries(); len(entries) > 0 {
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = fmt.Sprintf("%s: %d", e.Bucket, e.Count)
		}
		b.WriteString("Idea buckets: ")
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString("\n")
	}

	for i, idea := range report.Ideas {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, idea.Ticker, idea.Bucket)
		fmt.Fprintf(&b, "   Score: %s | %s | %s\n", common.FormatNumber(idea.Score), idea.FormType, idea.FiledDate)
		if idea.WhyNow != "" {
			fmt.Fprintf(&b, "   %s\n", idea.WhyNow)
		}
		if idea.FilingURL != "" {
			fmt.Fprintf(&b, "   SEC Filing: %s\n", idea.FilingURL)
		}
	}
	return b.String()
}

// FormatMoverCheck renders the check result for ticker as plain text.
// ticker must already be normalized.
func FormatMoverCheck(index *models.MoversIndex, ticker string) string {
	record, ok := index.Find(ticker)
	if !ok {
		return fmt.Sprintf("No >%s%% 1-day jump detected for %s in the last %d trading days.",
			common.FormatNumber(index.JumpThresholdPct()), ticker, index.Lookback())
	}

	badge := "Headlines found"
	if record.NoObviousNews() {
		badge = "No obvious headlines"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", record.Ticker, badge)
	fmt.Fprintf(&b, "Jump day: %s\n", record.JumpDate)
	fmt.Fprintf(&b, "1D jump: %s\n", common.FormatPercent(record.OneDayJump))
	fmt.Fprintf(&b, "5D move: %s\n", common.FormatPercent(record.FiveDayMove))
	fmt.Fprintf(&b, "News hits (window): %d\n", record.NewsHits)
	b.WriteString("Top headlines found before jump:\n")
	if len(record.TopHeadlines) == 0 {
		b.WriteString("None returned by the news scan in the window before the jump.\n")
		return b.String()
	}
	for _, h := range record.TopHeadlines {
		fmt.Fprintf(&b, "- %s (%s) %s\n", h.Title, h.Published, h.URL)
	}
	return b.String()
}
