// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/edition-drop/cliparse"
	"github.com/danielhkuo/edition-drop/metrics"
	"github.com/danielhkuo/edition-drop/models"
	"github.com/danielhkuo/edition-drop/storage"
	"github.com/danielhkuo/edition-drop/store"
	"github.com/danielhkuo/edition-drop/testutil"
)

func newDownloadHandler(t *testing.T, s RegistrationStore, cfg cliparse.Config) (*DownloadHandler, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	return NewDownloadHandler(s, storage.NewLocalFile(cfg.DownloadFile), cfg, m), m
}

func redeem(h *DownloadHandler, method, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/descargar/"+token, nil)
	req.SetPathValue("token", token)
	w := httptest.NewRecorder()
	h.Redeem(w, req)
	return w
}

func TestRedeem_ServesOnce(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	h, m := newDownloadHandler(t, store.NewRegistrations(conn), cfg)
	token := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", false)

	w := redeem(h, "GET", token)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, testutil.TestFileContent, w.Body.String())
	assert.Equal(t, `attachment; filename=archivo.pdf`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(len(testutil.TestFileContent)), w.Header().Get("Content-Length"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	assert.True(t, testutil.GetTestRegistration(t, conn, token).Downloaded)

	w = redeem(h, "GET", token)
	testutil.AssertError(t, w, http.StatusBadRequest, msgInvalidLink)

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Redemptions.WithLabelValues(metrics.OutcomeServed)))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Redemptions.WithLabelValues(metrics.OutcomeRejected)))
	assert.Equal(t, float64(len(testutil.TestFileContent)), promtestutil.ToFloat64(m.BytesServed))
}

func TestRedeem_DownloadNameWithSpaces(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	cfg.DownloadName = "Edición 2025.pdf"
	h, _ := newDownloadHandler(t, store.NewRegistrations(conn), cfg)
	token := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", false)

	w := redeem(h, "GET", token)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment;")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=utf-8''Edici%C3%B3n%202025.pdf")
}

func TestRedeem_RejectedTokens(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	h, _ := newDownloadHandler(t, store.NewRegistrations(conn), cfg)
	used := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", true)

	testCases := []struct {
		name  string
		token string
	}{
		{"already downloaded", used},
		{"unknown", "0123456789abcdef0123456789abcdef"},
		{"too short", "abc"},
		{"uppercase hex", "0123456789ABCDEF0123456789ABCDEF"},
		{"not hex", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{"traversal", "../../../../etc/passwd/aaaaaaaaa"},
		{"empty", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := redeem(h, "GET", tc.token)
			testutil.AssertError(t, w, http.StatusBadRequest, msgInvalidLink)
		})
	}
}

func TestRedeem_MissingFileKeepsToken(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	token := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", false)

	missing := cfg
	missing.DownloadFile = filepath.Join(t.TempDir(), "missing.pdf")
	h, _ := newDownloadHandler(t, store.NewRegistrations(conn), missing)

	w := redeem(h, "GET", token)
	testutil.AssertError(t, w, http.StatusInternalServerError, msgFileUnavailable)
	assert.False(t, testutil.GetTestRegistration(t, conn, token).Downloaded, "token must survive a missing file")

	// Once the file is back the same link works
	h, _ = newDownloadHandler(t, store.NewRegistrations(conn), cfg)
	testutil.AssertStatus(t, redeem(h, "GET", token), http.StatusOK)
}

func TestRedeem_HeadDoesNotConsume(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	h, _ := newDownloadHandler(t, store.NewRegistrations(conn), cfg)
	token := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", false)

	w := redeem(h, "HEAD", token)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, `attachment; filename=archivo.pdf`, w.Header().Get("Content-Disposition"))
	assert.False(t, testutil.GetTestRegistration(t, conn, token).Downloaded)

	testutil.AssertStatus(t, redeem(h, "GET", token), http.StatusOK)

	w = redeem(h, "HEAD", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedeem_StoreFailure(t *testing.T) {
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	h, _ := newDownloadHandler(t, failingStore{err: errors.New("connection reset")}, cfg)

	token := "0123456789abcdef0123456789abcdef"
	testutil.AssertError(t, redeem(h, "GET", token), http.StatusInternalServerError, msgVerifyFailed)
	testutil.AssertError(t, redeem(h, "HEAD", token), http.StatusInternalServerError, msgVerifyFailed)
}

func TestRedeem_ConsumeSetsDownloadedAt(t *testing.T) {
	conn := testutil.SetupTestDB(t, true)
	cfg := testutil.GetTestConfig(t, models.ModeStrict)
	s := store.NewRegistrations(conn)
	h, _ := newDownloadHandler(t, s, cfg)
	token := testutil.CreateTestRegistration(t, conn, "ana@example.com", "A1", false)

	testutil.AssertStatus(t, redeem(h, "GET", token), http.StatusOK)

	reg, err := s.FindByToken(t.Context(), token)
	require.NoError(t, err)
	assert.True(t, reg.Downloaded)
	require.NotNil(t, reg.DownloadedAt)
}
