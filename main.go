// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/db"
	"github.com/danielhkuo/edition-drop/metrics"
	"github.com/danielhkuo/edition-drop/router"
	"github.com/danielhkuo/edition-drop/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A missing .env is fine; the environment may be set directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect and verify
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Schema and the edition uniqueness policy for this mode
	if err := db.Migrate(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := db.ApplyEditionPolicy(ctx, dbConn, cfg.StrictMode()); err != nil {
		slog.Error("edition policy failed", "mode", cfg.Mode, "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType, "mode", cfg.Mode)

	// Download file
	src, err := storage.New(ctx, cfg)
	if err != nil {
		slog.Error("storage setup failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	if obj, err := storage.Check(ctx, src); err != nil {
		// Links are still issued; redemption fails without burning them until the file appears
		slog.Warn("download file not available yet", "source", src.Describe(), "error", err)
	} else {
		slog.Info("Download file ready", "source", src.Describe(), "size", humanize.Bytes(uint64(max(obj.Size, 0))))
	}

	// Create router
	handler := router.NewRouter(dbConn, src, cfg, metrics.New())

	// Create server
	server := http.Server{
		Handler:           handler,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight downloads finish
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
