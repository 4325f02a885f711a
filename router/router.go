// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/handlers"
	"github.com/danielhkuo/edition-drop/metrics"
	"github.com/danielhkuo/edition-drop/middleware"
	"github.com/danielhkuo/edition-drop/storage"
	"github.com/danielhkuo/edition-drop/store"
)

const healthTimeout = 2 * time.Second

// NewRouter builds the route table and wraps it with request IDs and CORS.
func NewRouter(db *sql.DB, src storage.Source, cfg cliparse.Config, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	regs := store.NewRegistrations(db)

	// Initialize handlers
	registrationHandler := handlers.NewRegistrationHandler(regs, cfg, m)
	downloadHandler := handlers.NewDownloadHandler(regs, src, cfg, m)

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithMetrics(m, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := regs.Ping(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Registration
	mux.HandleFunc("POST /registrar", wrap(registrationHandler.Register))
	mux.HandleFunc("GET /registros", wrap(registrationHandler.List))

	// Single-use download (GET also matches HEAD)
	mux.HandleFunc("GET /descargar/{token}", wrap(downloadHandler.Redeem))

	// Registration form
	mux.HandleFunc("GET /{$}", wrap(handlers.Form))

	return middleware.CORS(middleware.RequestID(mux))
}
