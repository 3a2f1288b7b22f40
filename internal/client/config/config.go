package config

import (
	"path/filepath"
	"time"
)

// Config holds runtime settings for the tasktracker CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, without a trailing slash.
//   - SessionPath: SQLite file that keeps the session token between runs.
//   - RequestTimeout: upper bound for a single API call.
type Config struct {
	ServerURL      string
	SessionPath    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.SessionPath = filepath.Join(".tasktracker", "session.db")
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
