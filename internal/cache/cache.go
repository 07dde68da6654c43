package cache

import (
	"strings"
	"sync"
	"time"
)

// CachedResponse holds a cached feed response.
type CachedResponse struct {
	StatusCode int
	Body       []byte
	StoredAt   time.Time
}

// entry wraps a cached response with expiry and insertion order tracking.
type entry struct {
	resp      *CachedResponse
	expiry    time.Time
	insertIdx int64
}

// ResponseCache is the intermediate cache between the renderers and the feed
// host. Plain ideas fetches are answered from it; cache-busting fetches skip
// the read and overwrite the entry.
// Keys are "method:path". Only successful GET responses should be stored.
// A zero TTL disables the cache.
type ResponseCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// New creates a new ResponseCache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *ResponseCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &ResponseCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// MakeKey builds a cache key from HTTP method and path. Query strings are
// part of the key, so a cache-busted URL never collides with the bare path.
func MakeKey(method, path string) string {
	return method + ":" + path
}

// Enabled reports whether the cache stores anything.
func (c *ResponseCache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns a cached response if found and not expired.
func (c *ResponseCache) Get(key string) (*CachedResponse, bool) {
	if !c.Enabled() {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(e.expiry) {
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.resp, true
}

// Set stores a response in the cache. Evicts the oldest entry if at capacity.
func (c *ResponseCache) Set(key string, resp *CachedResponse) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if resp.StoredAt.IsZero() {
		resp.StoredAt = now
	}
	e := entry{
		resp:      resp,
		expiry:    now.Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// Len returns the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// InvalidatePrefix removes all entries whose key contains the given path.
func (c *ResponseCache) InvalidatePrefix(prefix string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.Contains(key, prefix) {
			delete(c.items, key)
		}
	}
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *ResponseCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
