// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/edition-drop/auth"
	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/db"
	"github.com/danielhkuo/edition-drop/models"
)

// TestFileContent is the body of the download file created by GetTestConfig.
const TestFileContent = "%PDF-1.4 edition-drop test file"

// SetupTestDB creates a fresh SQLite database in a temp dir with the full
// schema and the edition policy for the given mode.
func SetupTestDB(t *testing.T, strict bool) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	conn, err := db.Open(context.Background(), cliparse.DatabaseSQLite, dsn)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(conn, cliparse.DatabaseSQLite), "Failed to migrate test database")
	require.NoError(t, db.ApplyEditionPolicy(context.Background(), conn, strict), "Failed to apply edition policy")

	return conn
}

// GetTestConfig returns a standard test configuration whose download file
// exists in a temp dir.
func GetTestConfig(t *testing.T, mode string) cliparse.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "descarga.pdf")
	require.NoError(t, os.WriteFile(path, []byte(TestFileContent), 0o644))

	return cliparse.Config{
		Port:           3000,
		DatabaseURL:    ":memory:",
		DatabaseType:   cliparse.DatabaseSQLite,
		BaseURL:        "http://localhost:3000",
		Mode:           mode,
		DownloadFile:   path,
		DownloadName:   "archivo.pdf",
		StorageBackend: cliparse.StorageLocal,
	}
}

// CreateTestRegistration inserts a registration directly and returns its token
func CreateTestRegistration(t *testing.T, conn *sql.DB, email, edition string, downloaded bool) string {
	t.Helper()

	token, err := auth.GenerateDownloadToken()
	require.NoError(t, err)

	_, err = conn.Exec(`
		INSERT INTO registration (email, edition, token, downloaded, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, email, edition, token, downloaded, time.Now().UTC())
	require.NoError(t, err, "Failed to create test registration")

	return token
}

// GetTestRegistration reads a registration row by token
func GetTestRegistration(t *testing.T, conn *sql.DB, token string) models.Registration {
	t.Helper()

	var reg models.Registration
	err := conn.QueryRow(`
		SELECT id, email, edition, token, downloaded
		FROM registration
		WHERE token = $1
	`, token).Scan(&reg.ID, &reg.Email, &reg.Edition, &reg.Token, &reg.Downloaded)
	require.NoError(t, err, "Failed to read test registration")

	return reg
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertError checks the status code and the error message of a JSON error response
func AssertError(t *testing.T, w *httptest.ResponseRecorder, expected int, message string) {
	t.Helper()
	AssertStatus(t, w, expected)

	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.Error != message {
		t.Errorf("Expected error %q, got %q", message, resp.Error)
	}
}
