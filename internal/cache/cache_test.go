package cache

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestResponseCache_GetSet(t *testing.T) {
	c := New(5*time.Second, 10)

	resp := &CachedResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"ideas":[]}`),
	}

	key := MakeKey("GET", "/data/ideas.json")
	c.Set(key, resp)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", got.StatusCode)
	}
	if string(got.Body) != `{"ideas":[]}` {
		t.Errorf("unexpected body: %s", got.Body)
	}
	if got.StoredAt.IsZero() {
		t.Error("expected StoredAt to be stamped on Set")
	}
}

func TestResponseCache_Miss(t *testing.T) {
	c := New(5*time.Second, 10)

	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected cache miss for nonexistent key")
	}
}

func TestResponseCache_TTLExpiration(t *testing.T) {
	c := New(time.Minute, 10)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := MakeKey("GET", "/data/ideas.json")
	c.Set(key, &CachedResponse{StatusCode: http.StatusOK, Body: []byte("data")})

	if _, ok := c.Get(key); !ok {
		t.Fatal("expected cache hit before expiry")
	}

	now = now.Add(61 * time.Second)

	if _, ok := c.Get(key); ok {
		t.Error("expected cache miss after TTL expiration")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, %d left", c.Len())
	}
}

func TestResponseCache_ZeroTTLDisables(t *testing.T) {
	c := New(0, 10)
	if c.Enabled() {
		t.Fatal("expected zero TTL cache to be disabled")
	}

	key := MakeKey("GET", "/data/ideas.json")
	c.Set(key, &CachedResponse{StatusCode: http.StatusOK})

	if _, ok := c.Get(key); ok {
		t.Error("disabled cache must never hit")
	}
	if c.Len() != 0 {
		t.Errorf("disabled cache must not store, got %d entries", c.Len())
	}
}

func TestResponseCache_NilIsSafe(t *testing.T) {
	var c *ResponseCache
	if c.Enabled() {
		t.Error("nil cache must report disabled")
	}
	if _, ok := c.Get("k"); ok {
		t.Error("nil cache must miss")
	}
	c.Set("k", &CachedResponse{})
	c.InvalidatePrefix("k")
	if c.Len() != 0 {
		t.Error("nil cache must be empty")
	}
}

func TestResponseCache_QueryStringIsPartOfKey(t *testing.T) {
	c := New(5*time.Second, 10)

	c.Set(MakeKey("GET", "/data/ideas.json"), &CachedResponse{StatusCode: http.StatusOK, Body: []byte("bare")})

	if _, ok := c.Get(MakeKey("GET", "/data/ideas.json?t=1760000000000")); ok {
		t.Error("cache-busted path must not hit the bare entry")
	}
}

func TestResponseCache_InvalidatePrefix(t *testing.T) {
	c := New(5*time.Second, 10)

	resp := &CachedResponse{StatusCode: http.StatusOK, Body: []byte("data")}

	c.Set(MakeKey("GET", "/data/ideas.json"), resp)
	c.Set(MakeKey("HEAD", "/data/ideas.json"), resp)
	c.Set(MakeKey("GET", "/data/other.json"), resp)

	c.InvalidatePrefix("/data/ideas.json")

	if _, ok := c.Get(MakeKey("GET", "/data/ideas.json")); ok {
		t.Error("expected GET ideas.json to be invalidated")
	}
	if _, ok := c.Get(MakeKey("HEAD", "/data/ideas.json")); ok {
		t.Error("expected HEAD ideas.json to be invalidated")
	}
	if _, ok := c.Get(MakeKey("GET", "/data/other.json")); !ok {
		t.Error("expected other.json to remain in cache")
	}
}

func TestResponseCache_MaxEntries(t *testing.T) {
	c := New(5*time.Second, 3)

	for i := 0; i < 4; i++ {
		c.Set(MakeKey("GET", fmt.Sprintf("/doc/%d", i)), &CachedResponse{StatusCode: http.StatusOK})
	}

	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	if _, ok := c.Get(MakeKey("GET", "/doc/0")); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get(MakeKey("GET", "/doc/3")); !ok {
		t.Error("expected newest entry to be present")
	}
}

func TestResponseCache_MaxEntriesClampedToOne(t *testing.T) {
	c := New(5*time.Second, 0)

	c.Set("a", &CachedResponse{StatusCode: http.StatusOK})
	c.Set("b", &CachedResponse{StatusCode: http.StatusOK})

	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected most recent entry to survive")
	}
}

func TestResponseCache_OverwriteExistingKey(t *testing.T) {
	c := New(5*time.Second, 2)

	key := MakeKey("GET", "/data/ideas.json")
	c.Set(key, &CachedResponse{StatusCode: http.StatusOK, Body: []byte("v1")})
	c.Set(MakeKey("GET", "/other"), &CachedResponse{StatusCode: http.StatusOK})
	c.Set(key, &CachedResponse{StatusCode: http.StatusOK, Body: []byte("v2")})

	if c.Len() != 2 {
		t.Errorf("overwrite must not grow the cache, got %d", c.Len())
	}
	got, ok := c.Get(key)
	if !ok || string(got.Body) != "v2" {
		t.Errorf("expected v2 after overwrite, got %v", got)
	}
}

func TestResponseCache_ThreadSafety(t *testing.T) {
	c := New(time.Second, 50)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := MakeKey("GET", fmt.Sprintf("/doc/%d", (n+j)%60))
				c.Set(key, &CachedResponse{StatusCode: http.StatusOK})
				c.Get(key)
				if j%25 == 0 {
					c.InvalidatePrefix("/doc/1")
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("cache exceeded max entries: %d", c.Len())
	}
}
