// Package migrations holds the SQLite schema for the scoreboard store.
package migrations

import "embed"

// FS contains the embedded SQLite migrations.
//
//go:embed *.sql
var FS embed.FS
