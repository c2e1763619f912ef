// Package migrations embeds the SQLite save schema for golang-migrate.
package migrations

import "embed"

// FS holds the numbered up/down migration pairs.
//
//go:embed *.sql
var FS embed.FS
