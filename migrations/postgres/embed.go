// Package migrations embebe las migraciones SQL (formato goose) del esquema de auth.
package migrations

import "embed"

// FS contiene las migraciones de postgres.
//
//go:embed *.sql
var FS embed.FS
