// Package migrations embeds the goose SQL migrations for the PostgreSQL schema.
package migrations

import "embed"

// FS holds every *.sql migration, versioned by filename prefix.
//
//go:embed *.sql
var FS embed.FS
