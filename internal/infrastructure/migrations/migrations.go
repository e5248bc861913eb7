// Package migrations embeds the application schema migrations in
// golang-migrate file naming (NNNNNN_name.up.sql / .down.sql).
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS

// InitialSchema is the file name of the first up migration.
const InitialSchema = "000001_init.up.sql"
