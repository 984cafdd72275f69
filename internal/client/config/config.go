package config

import "time"

// Config holds runtime settings for the RiceGuard CLI.
//
// Fields:
//   - BaseURL: root URL of the RiceGuard HTTP API.
//   - RequestTimeout: per-attempt timeout applied to every API request.
//   - MaxAttempts: total tries per request, first attempt included.
//   - RetryBaseDelay: base backoff delay, doubled on every retry.
//   - RetryJitterMax: upper bound of the random delay added to each backoff.
//   - MessageDelay: pause before redirecting to login after a session expiry,
//     so the user can read the message first.
//   - DatabasePath: location of the local SQLite cache file.
type Config struct {
	BaseURL        string
	DatabasePath   string
	RequestTimeout time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
	RetryJitterMax time.Duration
	MessageDelay   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.DatabasePath = "riceguard.db"
	c.RequestTimeout = 10 * time.Second
	c.MaxAttempts = 3
	c.RetryBaseDelay = 1 * time.Second
	c.RetryJitterMax = 1 * time.Second
	c.MessageDelay = 1500 * time.Millisecond
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
