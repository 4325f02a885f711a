// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registration outcomes
const (
	OutcomeCreated          = "created"
	OutcomeInvalid          = "invalid"
	OutcomeDuplicateEmail   = "duplicate_email"
	OutcomeDuplicateEdition = "duplicate_edition"
	OutcomeError            = "error"
)

// Redemption outcomes
const (
	OutcomeServed   = "served"
	OutcomeRejected = "rejected"
)

// Metrics holds all Prometheus metrics for the application. Each instance
// owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Registrations   *prometheus.CounterVec
	Redemptions     *prometheus.CounterVec
	BytesServed     prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edition_drop_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		Redemptions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edition_drop_redemptions_total",
			Help: "Download link redemptions by outcome",
		}, []string{"outcome"}),
		BytesServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "edition_drop_download_bytes_total",
			Help: "Bytes of the download file streamed to clients",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edition_drop_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) RecordRegistration(outcome string) {
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordRedemption(outcome string) {
	m.Redemptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordBytesServed(n int64) {
	if n > 0 {
		m.BytesServed.Add(float64(n))
	}
}

// ObserveRequest records one finished request. route is the matched mux
// pattern so token values never become label values.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
