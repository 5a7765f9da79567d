// Package migrations embeds the goose SQL migrations for the recipe database.
package migrations

import "embed"

// FS holds the numbered *.sql files at its root.
//
//go:embed *.sql
var FS embed.FS
