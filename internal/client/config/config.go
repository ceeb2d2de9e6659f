package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the arena CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API, including the /api
//     prefix (e.g. http://localhost:3000/api).
//   - DatabasePath: path of the local sqlite file; empty means a file inside
//     the per-user data directory.
//   - RequestTimeout: per-request timeout for REST calls.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000/api"
	c.DatabasePath = ""
	c.RequestTimeout = 10 * time.Second
}

// SocketURL derives the websocket endpoint from the API base URL: the /api
// suffix is dropped, the scheme switches to ws(s), and /ws is appended.
func (c *Config) SocketURL() string {
	base := strings.TrimSuffix(strings.TrimSuffix(c.ServerBaseURL, "/"), "/api")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
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
