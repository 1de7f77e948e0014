package migrations

import "embed"

// FS contains embedded SQLite migrations for the lost lab store.
//
//go:embed *.sql
var FS embed.FS
