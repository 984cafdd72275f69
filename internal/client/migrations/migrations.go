// Package migrations embeds the goose migrations for the client's local
// SQLite database: the session key-value store and the scan history cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
