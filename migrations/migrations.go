// Package migrations embeds the PostgreSQL schema migrations.
//
// Each migration is a NNN_name.up.sql file with an optional matching
// NNN_name.down.sql that reverts it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
