// Package migrations bundles the SQL schema migrations into the binary.
package migrations

import "embed"

// FS holds every *.sql migration, named NNN_description.sql.
//
//go:embed *.sql
var FS embed.FS
