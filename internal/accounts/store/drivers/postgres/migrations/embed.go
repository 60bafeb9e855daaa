// Package migrations embeds the postgres schema migration files so they
// can be applied from the compiled binary.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
