// Package migrations embeds the goose SQL migrations for the server schema.
// Files are applied in version order, so tables come after the tables they
// reference.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
