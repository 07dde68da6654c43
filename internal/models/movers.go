package models

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultJumpThresholdPct is shown when the index carries no threshold.
	DefaultJumpThresholdPct = 20
	// DefaultLookbackDays is shown when the index carries no lookback.
	DefaultLookbackDays = 5

	// ClassificationNoObviousNews marks a jump with little or no preceding news.
	ClassificationNoObviousNews = "no_obvious_news"
	// ClassificationHeadlinesFound is what the generator writes otherwise.
	ClassificationHeadlinesFound = "headlines_found"
)

// MoversIndex is the movers.json document.
type MoversIndex struct {
	GeneratedUTC string        `json:"generated_utc,omitempty"`
	LookbackDays int           `json:"lookback_days,omitempty"`
	Thresholds   *Thresholds   `json:"thresholds,omitempty"`
	Items        []MoverRecord `json:"items"`
}

// Thresholds are the screening parameters the generator ran with.
type Thresholds struct {
	OneDayJumpPct   float64 `json:"one_day_jump_pct,omitempty"`
	FiveDayMovePct  float64 `json:"five_day_move_pct,omitempty"`
	NewsWindowHours int     `json:"news_window_hours,omitempty"`
	NoNewsIfHitsLeq int     `json:"no_news_if_hits_leq,omitempty"`
}

// MoverRecord is one ticker that jumped inside the lookback window.
type MoverRecord struct {
	Ticker             string     `json:"ticker"`
	JumpDate           string     `json:"jump_date"`
	NewsClassification string     `json:"news_classification"`
	OneDayJump         *float64   `json:"one_day_jump"`
	FiveDayMove        *float64   `json:"five_day_move"`
	NewsHits           int        `json:"news_hits"`
	TopHeadlines       []Headline `json:"top_headlines"`
}

// Headline is a news article found before the jump.
type Headline struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
}

// NoObviousNews reports whether the record is classified as a jump without news.
func (r MoverRecord) NoObviousNews() bool {
	return r.NewsClassification == ClassificationNoObviousNews
}

// JumpThresholdPct returns the 1-day jump threshold, defaulting to 20 when
// absent or zero.
func (m *MoversIndex) JumpThresholdPct() float64 {
	if m.Thresholds == nil || m.Thresholds.OneDayJumpPct == 0 {
		return DefaultJumpThresholdPct
	}
	return m.Thresholds.OneDayJumpPct
}

// Lookback returns the lookback window in trading days, defaulting to 5 when
// absent or zero.
func (m *MoversIndex) Lookback() int {
	if m.LookbackDays == 0 {
		return DefaultLookbackDays
	}
	return m.LookbackDays
}

// Find returns the first record whose ticker equals ticker exactly.
func (m *MoversIndex) Find(ticker string) (*MoverRecord, bool) {
	for i := range m.Items {
		if m.Items[i].Ticker == ticker {
			return &m.Items[i], true
		}
	}
	return nil, false
}

// ParseMoversIndex decodes a movers.json body.
func ParseMoversIndex(data []byte) (*MoversIndex, error) {
	var index MoversIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse movers index: %w", err)
	}
	return &index, nil
}
