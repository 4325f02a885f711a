// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the edition-drop API.

# Handler Types

Each handler is a struct with its store, config and metrics dependencies:

  - RegistrationHandler: registration and listing
  - DownloadHandler: single-use link redemption

Handlers are created via constructor functions:

	regs := store.NewRegistrations(conn)
	registrationHandler := handlers.NewRegistrationHandler(regs, cfg, m)
	downloadHandler := handlers.NewDownloadHandler(regs, src, cfg, m)

Form is a plain handler function serving the embedded HTML form.

# Registration Flow

	POST /registrar         → Register (returns mensaje, enlace)
	GET  /descargar/{token} → Redeem (streams the file once)
	GET  /registros         → List
	GET  /                  → Form

Register trims both fields and lower-cases the email. In strict mode the
email must look like an address and the edition must be alphanumeric.
Duplicates are detected by the database's unique indexes, so two racing
requests for the same email cannot both succeed.

# Single-Use Links

Redeem checks the token shape, opens the download file, then consumes the
token with one conditional UPDATE. Only the request whose UPDATE changes
the row streams the file; every other request gets 400. HEAD requests
report whether the link is still valid without consuming it.

# Errors

All failures are JSON:

	{"error": "Enlace inválido o ya utilizado."}

Client mistakes are 400; database and storage failures are 500.
*/
package handlers
