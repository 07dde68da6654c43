package config

import "github.com/bobmcallan/filing-ideas/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		Feed: FeedConfig{
			IdeasPath:      "ideas.json",
			MoversPath:     "movers.json",
			DataDir:        "./docs",
			TimeoutSeconds: 10,
			RateLimit:      10,
		},
		Cache: CacheConfig{
			TTLSeconds: 0,
			MaxEntries: 16,
		},
		Logging: common.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
