// Package migrations embeds the PostgreSQL save schema for golang-migrate.
package migrations

import "embed"

// FS holds the numbered *.up.sql and *.down.sql files.
//
//go:embed *.sql
var FS embed.FS
