// Package migrations embeds the SQL schema migrations applied by
// `agendactl migrate up`, the server at startup and integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
