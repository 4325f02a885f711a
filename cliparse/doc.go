// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

Flags fall back to environment variables, then to defaults:

	-p          PORT               3000
	-d          DATABASE_URL       file:edition-drop.db (sqlite only)
	-t          DATABASE_TYPE      sqlite | postgres | pgx
	-base-url   BASE_URL           http://localhost:<port>
	            REACT_APP_API_URL  (legacy fallback for BASE_URL)
	-mode       REGISTRATION_MODE  strict | lenient
	-file       DOWNLOAD_FILE      files/descarga.pdf
	-file-name  DOWNLOAD_NAME      archivo.pdf
	-storage    STORAGE_BACKEND    local | s3

S3 credentials are read from the environment only:

	S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET

CLI flags take precedence over environment variables.

# Registration Modes

  - strict: email must look like an address, edition must be alphanumeric,
    and each edition can be registered once
  - lenient: only presence is checked and editions may repeat

# Validation

ParseFlags returns an error for unknown database types, modes or storage
backends, an out-of-range port, a missing DATABASE_URL for Postgres, or
incomplete S3 settings.
*/
package cliparse
