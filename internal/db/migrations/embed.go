package migrations

import "embed"

// FS contains embedded PostgreSQL migrations for the exchange journal.
//
//go:embed *.sql
var FS embed.FS
