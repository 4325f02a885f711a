// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/edition-drop/db"
	"github.com/danielhkuo/edition-drop/models"
)

// Clock returns the current time; injected for tests.
type Clock func() time.Time

// Registrations persists registrations in any of the supported databases.
// Queries use $n placeholders and RETURNING, which SQLite and Postgres share.
type Registrations struct {
	db    *sql.DB
	clock Clock
}

// Option configures a Registrations store.
type Option func(*Registrations)

// WithClock sets the clock used for created_at and downloaded_at.
func WithClock(clock Clock) Option {
	return func(s *Registrations) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewRegistrations constructs a store over an open, migrated database.
func NewRegistrations(conn *sql.DB, opts ...Option) *Registrations {
	s := &Registrations{
		db:    conn,
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create inserts a new registration. Uniqueness is left to the database
// so that concurrent duplicates cannot both succeed; the violated
// constraint is translated into ErrDuplicateEmail, ErrDuplicateEdition or
// ErrDuplicateToken.
func (s *Registrations) Create(ctx context.Context, email, edition, token string) (*models.Registration, error) {
	reg := &models.Registration{
		Email:     email,
		Edition:   edition,
		Token:     token,
		CreatedAt: s.clock(),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO registration (email, edition, token, downloaded, created_at)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING id
	`, reg.Email, reg.Edition, reg.Token, reg.CreatedAt).Scan(&reg.ID)
	if err != nil {
		if detail, ok := db.UniqueViolation(err); ok {
			return nil, fmt.Errorf("create registration: %w", duplicateError(detail))
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	return reg, nil
}

// duplicateError maps a driver's constraint detail to a store error.
func duplicateError(detail string) error {
	switch {
	case strings.Contains(detail, "edition"):
		return ErrDuplicateEdition
	case strings.Contains(detail, "token"):
		return ErrDuplicateToken
	default:
		return ErrDuplicateEmail
	}
}

// Consume marks the token's registration as downloaded and returns its id,
// email and edition. The conditional UPDATE is the whole check-and-set, so
// of any number of concurrent calls for one token exactly one succeeds.
// Unknown and already used tokens both yield ErrAlreadyUsed.
func (s *Registrations) Consume(ctx context.Context, token string) (*models.Registration, error) {
	now := s.clock()

	reg := &models.Registration{Token: token}
	err := s.db.QueryRowContext(ctx, `
		UPDATE registration
		SET downloaded = TRUE, downloaded_at = $1
		WHERE token = $2 AND downloaded = FALSE
		RETURNING id, email, edition
	`, now, token).Scan(&reg.ID, &reg.Email, &reg.Edition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("consume token: %w", ErrAlreadyUsed)
	}
	if err != nil {
		return nil, fmt.Errorf("consume token: %w", err)
	}

	reg.Downloaded = true
	reg.DownloadedAt = &now
	return reg, nil
}

// FindByToken returns the registration for a token whether or not it has
// been redeemed.
func (s *Registrations) FindByToken(ctx context.Context, token string) (*models.Registration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, edition, token, downloaded, created_at, downloaded_at
		FROM registration
		WHERE token = $1
	`, token)

	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find by token: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find by token: %w", err)
	}
	return reg, nil
}

// List returns every registration ordered by id. Never nil.
func (s *Registrations) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, edition, token, downloaded, created_at, downloaded_at
		FROM registration
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	return regs, nil
}

// Ping checks that the database is reachable.
func (s *Registrations) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row scanner) (*models.Registration, error) {
	var reg models.Registration
	var downloadedAt sql.NullTime

	if err := row.Scan(
		&reg.ID,
		&reg.Email,
		&reg.Edition,
		&reg.Token,
		&reg.Downloaded,
		&reg.CreatedAt,
		&downloadedAt,
	); err != nil {
		return nil, err
	}

	if downloadedAt.Valid {
		t := downloadedAt.Time
		reg.DownloadedAt = &t
	}
	return &reg, nil
}
