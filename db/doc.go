// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages its schema.

# Drivers

Three database types are supported:

  - sqlite: modernc.org/sqlite (pure Go, no cgo). Default.
  - postgres: github.com/lib/pq
  - pgx: github.com/jackc/pgx/v5/stdlib

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite pools are capped at a single connection so ":memory:" works and
writers never contend. Postgres pools use 10 open and 10 idle connections.

# Migrations

Migrations are embedded and applied with golang-migrate:

	if err := db.Migrate(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Each dialect has its own directory under migrations/. Safe to call on every
start.

# Edition Policy

Whether an edition may be registered twice depends on the registration
mode, so the unique edition index is managed at startup rather than in a
migration:

	err := db.ApplyEditionPolicy(ctx, conn, cfg.StrictMode())

# Tables

	registration
	  id             surrogate key
	  email          unique
	  edition        unique in strict mode
	  token          unique, single-use download credential
	  downloaded     false until the link is redeemed
	  created_at
	  downloaded_at  set on redemption

# Errors

UniqueViolation classifies unique constraint failures across all three
drivers so callers can tell which column collided.
*/
package db
