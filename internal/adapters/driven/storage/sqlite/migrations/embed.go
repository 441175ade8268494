// Package migrations embeds the SQL migration files for the registry.
package migrations

import "embed"

// FS holds the migration files.
//
//go:embed *.sql
var FS embed.FS
