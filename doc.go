// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the edition-drop server.

edition-drop registers an email together with an edition number and hands
back a download link that works exactly once.

# Starting the Server

With no configuration the server uses a local SQLite file and serves
files/descarga.pdf:

	go run .

Or with flags:

	go run . -p 3000 -t postgres -d "postgres://..." -mode lenient

A .env file in the working directory is loaded first when present.

# Configuration

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): sqlite, postgres or pgx (default: sqlite)
  - DATABASE_URL (-d): Connection string (required unless sqlite)
  - BASE_URL (-base-url): Prefix of issued links; REACT_APP_API_URL is
    also accepted (default: http://localhost:<port>)
  - REGISTRATION_MODE (-mode): strict or lenient (default: strict)
  - DOWNLOAD_FILE (-file), DOWNLOAD_NAME (-file-name): file to serve and
    the name clients save it as
  - STORAGE_BACKEND (-storage): local or s3; s3 reads S3_ENDPOINT,
    S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET

# Modes

Strict mode validates the email and an alphanumeric edition and allows
each edition once. Lenient mode only requires both fields and lets
editions repeat. Emails are unique in both.

# Architecture

  - handlers: registration, download, listing, form
  - router: Route definitions using Go 1.22+ routing
  - middleware: request IDs, logging, metrics, CORS, JSON helpers
  - store: registration persistence
  - db: driver selection, migrations, constraint errors
  - storage: local file or S3-compatible object
  - metrics: Prometheus collectors
  - models: Request/response types
  - auth: Download token generation and validation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
