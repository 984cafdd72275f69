// Package config loads runtime configuration for the RiceGuard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the RiceGuard API
//	-t int      request timeout per attempt (seconds)
//	-r int      total attempts per request
//	-d string   path to the local cache database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for durations, so values can be either
// strings like "1s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.riceguard.example",
//	  "database_path": "riceguard.db",
//	  "request_timeout": "10s",
//	  "max_attempts": 3,
//	  "retry_base_delay": "1s",
//	  "retry_jitter_max": "1s",
//	  "message_delay": "1500ms"
//	}
//
// Primary API
//
//   - type Config                     — holds the client's runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
