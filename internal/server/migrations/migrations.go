// Package migrations embeds the goose SQL migrations for the gateway's
// notification log.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
