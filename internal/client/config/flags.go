package config

import (
	"flag"
	"os"
	"time"

	"github.com/riceguard/riceguard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the RiceGuard API (default from Config)
//	-t int      per-attempt request timeout in seconds (default from Config)
//	-r int      total attempts per request (default from Config)
//	-d string   path to the local SQLite cache file (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the RiceGuard API")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout per attempt (in seconds)")
	fs.IntVar(&cfg.MaxAttempts, "r", cfg.MaxAttempts, "total attempts per request")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
