// ABOUTME: Embedded SQL migrations for the gymlog database schema.
// ABOUTME: Applied at open time through golang-migrate's iofs source.
package migrations

import "embed"

// Files exposes the compiled-in migration SQL files.
//
//go:embed *.sql
var Files embed.FS
