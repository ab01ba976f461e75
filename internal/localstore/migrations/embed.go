package migrations

import "embed"

// FS contains embedded SQLite migrations for local settings storage.
//
//go:embed *.sql
var FS embed.FS
