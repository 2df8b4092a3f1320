// Package migrations embeds the goose SQL migrations for the account store.
package migrations

import "embed"

// Migrations holds the PostgreSQL schema.
//
//go:embed *.sql
var Migrations embed.FS

// SQLite holds the same schema for the single-file store, under "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS
