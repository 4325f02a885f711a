// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the edition-drop API.

# Route Registration

NewRouter creates the route table and returns it wrapped with request IDs
and CORS:

	handler := router.NewRouter(db, src, cfg, m)

# Endpoints

Operations:

	GET /health  - Database ping (200 OK or 503)
	GET /metrics - Prometheus exposition

Registration (public, no auth):

	POST /registrar         - Register email + edition, returns download link
	GET  /registros         - List every registration
	GET  /descargar/{token} - Download the file once
	GET  /                  - HTML registration form

Any other path is 404 from the mux.

# Handler Initialization

The router builds one store over the connection and shares it:

	regs := store.NewRegistrations(db)
	registrationHandler := handlers.NewRegistrationHandler(regs, cfg, m)
	downloadHandler := handlers.NewDownloadHandler(regs, src, cfg, m)

API routes are wrapped with WithLogging and WithMetrics.
*/
package router
