package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/filing-ideas/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Feed    FeedConfig           `toml:"feed"`
	Cache   CacheConfig          `toml:"cache"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

// FeedConfig describes where the generated ideas.json and movers.json documents live.
type FeedConfig struct {
	// BaseURL is prepended to IdeasPath and MoversPath. When empty the
	// portal's own /data/ route is used.
	BaseURL    string `toml:"base_url" validate:"omitempty,url"`
	IdeasPath  string `toml:"ideas_path" validate:"required"`
	MoversPath string `toml:"movers_path" validate:"required"`
	// DataDir, when set, is served at /data/ so the portal can host the
	// generator's output itself.
	DataDir        string `toml:"data_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=1"`
	RateLimit      int    `toml:"rate_limit" validate:"gte=1"`
}

// CacheConfig controls the intermediate response cache for non-forced ideas fetches.
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds" validate:"gte=0"`
	MaxEntries int `toml:"max_entries" validate:"gte=1"`
}

// Timeout returns the feed HTTP timeout.
func (f FeedConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// TTL returns the cache time-to-live.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// BaseURL returns the portal's own base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// FeedBaseURL returns where the documents are fetched from. Without an
// explicit feed.base_url it follows the listener, so port and host overrides
// keep pointing at the portal's own /data/ route.
func (c *Config) FeedBaseURL() string {
	if c.Feed.BaseURL != "" {
		return c.Feed.BaseURL
	}
	host := c.Server.Host
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Server.Port)) + "/data"
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDotEnv loads a .env file into the process environment. Variables already
// set in the environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies IDEAS_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("IDEAS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("IDEAS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if baseURL := os.Getenv("IDEAS_FEED_BASE_URL"); baseURL != "" {
		config.Feed.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if dataDir := os.Getenv("IDEAS_FEED_DATA_DIR"); dataDir != "" {
		config.Feed.DataDir = dataDir
	}
	if ttl := os.Getenv("IDEAS_CACHE_TTL_SECONDS"); ttl != "" {
		if v, err := strconv.Atoi(ttl); err == nil {
			config.Cache.TTLSeconds = v
		}
	}
	if level := os.Getenv("IDEAS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("IDEAS_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
