package view

import (
	"html/template"
	"sync"
)

// Board is the shared, last-known state of the ideas regions.
//
// Every render takes a token from Begin. Apply only runs for the most recent
// token, so when two refreshes overlap the response of the later request is
// the one that stays on the board regardless of which resolves first.
// Each request builds its own page from its own outcome; the board only
// supplies prior content when a fetch fails.
type Board struct {
	Subtitle *Region
	Stats    *Region
	List     *Region

	mu      sync.Mutex
	latest  uint64
	settled template.HTML
}

// NewBoard creates a board with empty regions.
func NewBoard() *Board {
	return &Board{
		Subtitle: NewRegion(),
		Stats:    NewRegion(),
		List:     NewRegion(),
	}
}

// Begin issues a new request token and shows placeholder in the subtitle.
// Tokens increase monotonically.
func (b *Board) Begin(placeholder template.HTML) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest++
	b.Subtitle.Set(placeholder)
	return b.latest
}

// Apply runs fn while holding the board lock if token is still current.
// It returns false when the token is stale and fn was skipped.
func (b *Board) Apply(token uint64, fn func(*Board)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token != b.latest {
		return false
	}
	fn(b)
	b.settled = b.Subtitle.HTML()
	return true
}

// Abandon puts back the last applied subtitle if token is still current.
// Used when the caller went away before its fetch finished.
func (b *Board) Abandon(token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token == b.latest {
		b.Subtitle.Set(b.settled)
	}
}

// Snapshot is a point-in-time copy of the board regions.
type Snapshot struct {
	Subtitle template.HTML `json:"subtitle"`
	Stats    template.HTML `json:"stats"`
	List     template.HTML `json:"list"`
}

// Snapshot copies the current region contents under the board lock so the
// three regions are consistent with each other.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Subtitle: b.Subtitle.HTML(),
		Stats:    b.Stats.HTML(),
		List:     b.List.HTML(),
	}
}
