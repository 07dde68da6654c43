package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/filing-ideas/internal/cache"
	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/bobmcallan/filing-ideas/internal/models"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP timeout for feed requests.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default outbound request rate (requests per second).
	DefaultRateLimit = 10

	// maxBodyBytes caps a feed document. movers.json with a full headline scan
	// stays well under this.
	maxBodyBytes = 8 << 20

	// cacheBustParam is the query parameter that defeats intermediate caches.
	cacheBustParam = "t"
)

// FeedClient fetches the generated ideas.json and movers.json documents.
type FeedClient struct {
	baseURL    string
	ideasPath  string
	moversPath string
	httpClient *http.Client
	cache      *cache.ResponseCache
	limiter    *rate.Limiter
	logger     *common.Logger
	now        func() time.Time
}

// Option configures the FeedClient.
type Option func(*FeedClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *FeedClient) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *FeedClient) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithCache sets the intermediate response cache used for plain ideas fetches.
func WithCache(rc *cache.ResponseCache) Option {
	return func(c *FeedClient) {
		c.cache = rc
	}
}

// WithRateLimit sets a custom outbound rate limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *FeedClient) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets a logger.
func WithLogger(logger *common.Logger) Option {
	return func(c *FeedClient) {
		c.logger = logger
	}
}

// WithPaths overrides the document paths relative to the base URL.
func WithPaths(ideasPath, moversPath string) Option {
	return func(c *FeedClient) {
		if ideasPath != "" {
			c.ideasPath = ideasPath
		}
		if moversPath != "" {
			c.moversPath = moversPath
		}
	}
}

// WithClock sets the time source for cache-busting tokens.
func WithClock(now func() time.Time) Option {
	return func(c *FeedClient) {
		c.now = now
	}
}

// NewFeedClient creates a client reading documents below baseURL.
func NewFeedClient(baseURL string, opts ...Option) *FeedClient {
	c := &FeedClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		ideasPath:  "ideas.json",
		moversPath: "movers.json",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchIdeas fetches and decodes ideas.json.
// Without forceRefresh a fresh cached copy is returned when available. With
// forceRefresh the request carries a cache-busting timestamp, skips the cache
// read and replaces the cached copy.
func (c *FeedClient) FetchIdeas(ctx context.Context, forceRefresh bool) (*models.IdeaReport, error) {
	key := cache.MakeKey(http.MethodGet, c.ideasPath)

	if !forceRefresh {
		if cached, ok := c.cache.Get(key); ok {
			report, err := models.ParseIdeaReport(cached.Body)
			if err == nil {
				c.logger.Debug().
					Str("document", c.ideasPath).
					Str("stored_at", cached.StoredAt.Format(time.RFC3339)).
					Msg("ideas served from cache")
				return report, nil
			}
			c.cache.InvalidatePrefix(c.ideasPath)
		}
	}

	reqPath := c.ideasPath
	headers := http.Header{}
	if forceRefresh {
		reqPath = c.bust(c.ideasPath)
		headers.Set("Cache-Control", "no-cache")
	}

	resp, err := c.get(ctx, reqPath, headers)
	if err != nil {
		return nil, fetchFailure("get "+c.ideasPath, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, fetchFailure(fmt.Sprintf("%s returned %d", c.ideasPath, resp.StatusCode), nil)
	}

	report, err := models.ParseIdeaReport(resp.Body)
	if err != nil {
		return nil, fetchFailure("decode "+c.ideasPath, err)
	}

	c.cache.Set(key, resp)

	c.logger.Debug().
		Str("document", c.ideasPath).
		Bool("force_refresh", forceRefresh).
		Int("ideas", len(report.Ideas)).
		Int("cache_entries", c.cache.Len()).
		Msg("ideas fetched")

	return report, nil
}

// FetchMovers fetches and decodes movers.json, always bypassing caches.
// A non-success status yields a *DataUnavailableError.
func (c *FeedClient) FetchMovers(ctx context.Context) (*models.MoversIndex, error) {
	headers := http.Header{}
	headers.Set("Cache-Control", "no-store")
	headers.Set("Pragma", "no-cache")

	resp, err := c.get(ctx, c.bust(c.moversPath), headers)
	if err != nil {
		return nil, fetchFailure("get "+c.moversPath, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, &DataUnavailableError{
			Document:   path.Base(c.moversPath),
			StatusCode: resp.StatusCode,
		}
	}

	index, err := models.ParseMoversIndex(resp.Body)
	if err != nil {
		return nil, fetchFailure("decode "+c.moversPath, err)
	}

	c.logger.Debug().
		Str("document", c.moversPath).
		Int("items", len(index.Items)).
		Msg("movers fetched")

	return index, nil
}

// bust appends the cache-busting timestamp parameter to p.
func (c *FeedClient) bust(p string) string {
	sep := "?"
	if strings.Contains(p, "?") {
		sep = "&"
	}
	return p + sep + cacheBustParam + "=" + strconv.FormatInt(c.now().UnixMilli(), 10)
}

// url resolves a document path against the base URL.
func (c *FeedClient) url(p string) string {
	if c.baseURL == "" {
		return p
	}
	return c.baseURL + "/" + strings.TrimLeft(p, "/")
}

// get performs a rate-limited GET and reads the full body.
func (c *FeedClient) get(ctx context.Context, p string, headers http.Header) (*cache.CachedResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(p), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vals := range headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("url", c.url(p)).Err(err).Msg("feed request failed")
		return nil, fmt.Errorf("failed to reach feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodyBytes)
	}

	c.logger.Debug().
		Str("url", c.url(p)).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("feed request")

	return &cache.CachedResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
