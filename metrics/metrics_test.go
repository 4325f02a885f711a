// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Independent(t *testing.T) {
	// Two instances must not collide on registration
	a := New()
	b := New()

	a.RecordRegistration(OutcomeCreated)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Registrations.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Registrations.WithLabelValues(OutcomeCreated)))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordRedemption(OutcomeServed)
	m.RecordRedemption(OutcomeRejected)
	m.RecordRedemption(OutcomeRejected)
	m.RecordBytesServed(1024)
	m.RecordBytesServed(-1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Redemptions.WithLabelValues(OutcomeServed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Redemptions.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.BytesServed))
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordRegistration(OutcomeDuplicateEmail)
	m.ObserveRequest("GET", "GET /registros", 200, 15*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `edition_drop_registrations_total{outcome="duplicate_email"} 1`)
	assert.Contains(t, body, `edition_drop_http_request_duration_seconds_count{method="GET",route="GET /registros",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
