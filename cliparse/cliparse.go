package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/edition-drop/models"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabasePgx      = "pgx"
)

// Storage backends
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

const defaultSQLiteURL = "file:edition-drop.db?_pragma=busy_timeout(5000)"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	BaseURL      string
	Mode         string

	DownloadFile string
	DownloadName string

	StorageBackend string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
}

// StrictMode reports whether registrations get format checks and a unique edition.
func (c Config) StrictMode() bool {
	return c.Mode == models.ModeStrict
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("edition-drop", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")
	fs.StringVar(&cfg.BaseURL, "base-url", "", "Public base URL used in download links")
	fs.StringVar(&cfg.Mode, "mode", "", "Registration mode (strict or lenient)")

	// Downloadable file
	fs.StringVar(&cfg.DownloadFile, "file", "", "Path (local) or object key (s3) of the downloadable file")
	fs.StringVar(&cfg.DownloadName, "file-name", "", "File name presented to the client")
	fs.StringVar(&cfg.StorageBackend, "storage", "", "Storage backend (local or s3)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port out of range: %d", cfg.Port)
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabasePgx:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite, postgres or pgx)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabaseSQLite {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = defaultSQLiteURL
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = envFirst("BASE_URL", "REACT_APP_API_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Mode == "" {
		cfg.Mode = os.Getenv("REGISTRATION_MODE")
		if cfg.Mode == "" {
			cfg.Mode = models.ModeStrict
		}
	}
	if cfg.Mode != models.ModeStrict && cfg.Mode != models.ModeLenient {
		return Config{}, fmt.Errorf("unsupported registration mode %q (use strict or lenient)", cfg.Mode)
	}

	if cfg.DownloadFile == "" {
		cfg.DownloadFile = envOr("DOWNLOAD_FILE", "files/descarga.pdf")
	}
	if cfg.DownloadName == "" {
		cfg.DownloadName = envOr("DOWNLOAD_NAME", "archivo.pdf")
	}

	if cfg.StorageBackend == "" {
		cfg.StorageBackend = envOr("STORAGE_BACKEND", StorageLocal)
	}
	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		// Credentials are env-only so they never show up in process listings
		cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
		cfg.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
		cfg.S3SecretKey = os.Getenv("S3_SECRET_KEY")
		cfg.S3Bucket = os.Getenv("S3_BUCKET")
		if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "" {
			return Config{}, errors.New("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET required for s3 storage")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage backend %q (use local or s3)", cfg.StorageBackend)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFirst(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
