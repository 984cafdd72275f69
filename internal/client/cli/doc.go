// Package cli provides the interactive RiceGuard command-line client.
//
// It wires configuration, the local SQLite cache, the resilient API facade,
// and an interactive REPL. The REPL tracks a current screen route so that a
// session expiry can send the user to the login prompt and bring them back
// to the screen they were on after they re-authenticate.
//
// Key features:
//   - Register / Login / Logout against the RiceGuard API
//   - Submit leaf images for disease analysis
//   - Browse scan history (served from the local cache when offline)
//   - Look up treatment recommendations per disease
//   - Delete one or several scans
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
