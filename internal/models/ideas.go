// Package models holds the shapes of the generated ideas and movers documents.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IdeaReport is the ideas.json document.
type IdeaReport struct {
	GeneratedUTC  string       `json:"generated_utc"`
	UniverseCount int          `json:"universe_count"`
	BucketCounts  BucketCounts `json:"bucket_counts"`
	Ideas         []Idea       `json:"ideas"`
}

// Idea is a single filing-derived signal.
type Idea struct {
	Ticker    string  `json:"ticker"`
	Bucket    string  `json:"bucket"`
	Score     float64 `json:"score"`
	FormType  string  `json:"form_type"`
	FiledDate string  `json:"filed_date"`
	WhyNow    string  `json:"why_now"`
	FilingURL string  `json:"filing_url"`
}

// BucketCount is one bucket_counts entry.
type BucketCount struct {
	Bucket string
	Count  int
}

// BucketCounts maps bucket name to idea count, keeping the key order of the
// source document.
type BucketCounts struct {
	m *orderedmap.OrderedMap[string, int]
}

// NewBucketCounts builds counts in the given order. Used by tests and tools.
func NewBucketCounts(entries ...BucketCount) BucketCounts {
	m := orderedmap.New[string, int](len(entries))
	for _, e := range entries {
		m.Set(e.Bucket, e.Count)
	}
	return BucketCounts{m: m}
}

// Entries returns the counts in document order.
func (b BucketCounts) Entries() []BucketCount {
	if b.m == nil {
		return nil
	}
	out := make([]BucketCount, 0, b.m.Len())
	for pair := b.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, BucketCount{Bucket: pair.Key, Count: pair.Value})
	}
	return out
}

// Len returns the number of buckets.
func (b BucketCounts) Len() int {
	if b.m == nil {
		return 0
	}
	return b.m.Len()
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (b *BucketCounts) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, int]()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		b.m = m
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("bucket_counts: %w", err)
	}
	b.m = m
	return nil
}

// MarshalJSON encodes the counts as a JSON object in document order.
func (b BucketCounts) MarshalJSON() ([]byte, error) {
	if b.m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.m)
}

// ParseIdeaReport decodes an ideas.json body.
func ParseIdeaReport(data []byte) (*IdeaReport, error) {
	var report IdeaReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse ideas report: %w", err)
	}
	return &report, nil
}
