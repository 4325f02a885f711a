// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request IDs

Wrap the whole mux so every response carries X-Request-Id:

	handler := middleware.CORS(middleware.RequestID(mux))

# Request Logging and Metrics

Wrap route handlers:

	mux.HandleFunc("GET /registros", middleware.WithLogging(middleware.WithMetrics(m, handler)))

WithLogging logs method, route pattern, status, bytes, duration_ms, client
IP and request ID once the handler returns. WithMetrics records latency
labelled with the same pattern. Neither ever sees the raw download path,
which holds the token.

# CORS Middleware

Any origin may call the API; preflight OPTIONS requests get 200.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")  // {"error": "message"}

	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "...")
		return
	}

Bodies larger than MaxBodyBytes are rejected.

# Client IP Extraction

	ip := middleware.GetClientIP(r)  // X-Forwarded-For, X-Real-IP, RemoteAddr
*/
package middleware
