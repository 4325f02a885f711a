// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	mpostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/danielhkuo/edition-drop/cliparse"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies all pending migrations for the given database type.
// Safe to call on every start; an up-to-date schema is not an error.
func Migrate(conn *sql.DB, dbType string) error {
	dialect := "postgres"
	if dbType == cliparse.DatabaseSQLite {
		dialect = "sqlite"
	}

	src, err := iofs.New(migrations, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	if dialect == "sqlite" {
		driver, err = msqlite.WithInstance(conn, &msqlite.Config{})
	} else {
		driver, err = mpostgres.WithInstance(conn, &mpostgres.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	// m.Close is skipped on purpose: it would close the shared *sql.DB.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// EditionIndex is the unique index that enforces one registration per edition.
const EditionIndex = "uq_registration_edition"

// ApplyEditionPolicy creates or drops the unique edition index to match the
// registration mode. Switching to unique fails if duplicates already exist.
func ApplyEditionPolicy(ctx context.Context, conn *sql.DB, unique bool) error {
	stmt := `DROP INDEX IF EXISTS ` + EditionIndex
	if unique {
		stmt = `CREATE UNIQUE INDEX IF NOT EXISTS ` + EditionIndex + ` ON registration(edition)`
	}

	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to apply edition policy (unique=%t): %w", unique, err)
	}
	return nil
}
