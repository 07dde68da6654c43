// Package view holds the display regions the renderers write into.
package view

import (
	"html/template"
	"sync"

	"github.com/bobmcallan/filing-ideas/internal/common"
)

// Region is a slot of HTML on the page. Safe for concurrent use.
type Region struct {
	mu      sync.RWMutex
	content template.HTML
}

// NewRegion creates an empty region.
func NewRegion() *Region {
	return &Region{}
}

// Text escapes plain text for use as region content.
func Text(text string) template.HTML {
	return template.HTML(common.EscapeHTML(text))
}

// Set replaces the region content with trusted HTML.
func (r *Region) Set(content template.HTML) {
	r.mu.Lock()
	r.content = content
	r.mu.Unlock()
}

// SetText replaces the region content with plain text.
func (r *Region) SetText(text string) {
	r.Set(Text(text))
}

// HTML returns the current content.
func (r *Region) HTML() template.HTML {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}
