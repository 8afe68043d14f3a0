// Package migrations holds the goose SQL migrations for the trips schema.
// The server applies them at startup; tests apply them from TestMain.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
