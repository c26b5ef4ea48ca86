// Package resolver holds assets shared by the binaries of the item resolver service.
package resolver

import "embed"

// Migrations contains the goose SQL migrations of the service database.
//
//go:embed migrations/*.sql
var Migrations embed.FS
