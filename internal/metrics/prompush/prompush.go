// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// It adapts the generic metrics.Backend interface to Prometheus by mapping
// the export metric names onto pre-registered CounterVec/SummaryVec
// collectors and pushing them to a Pushgateway instead of exposing a scrape
// endpoint; a short-lived export binary has nothing to scrape. All
// Prometheus-specific dependencies live here so the rest of the project can
// swap backends without changes.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"qexport/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	exports  *prometheus.CounterVec // qexport_exports_total{job,status}
	rows     *prometheus.CounterVec // qexport_rows_total{job}
	batches  *prometheus.CounterVec // qexport_batches_total{job}
	duration *prometheus.SummaryVec // qexport_export_duration_seconds{job,status}
}

// NewBackend constructs a Pushgateway backend. jobName is the Pushgateway
// job group; gatewayURL its base URL. Both are required.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "qexport"
	}

	reg := prometheus.NewRegistry()
	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        reg,
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qexport_exports_total",
			Help: "Completed export runs by job and status.",
		}, []string{"job", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qexport_rows_total",
			Help: "Rows written to output artifacts by job.",
		}, []string{"job"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qexport_batches_total",
			Help: "Batches flushed to output artifacts by job.",
		}, []string{"job"}),
		duration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name: "qexport_export_duration_seconds",
			Help: "Wall-clock duration of export runs by job and status.",
		}, []string{"job", "status"}),
	}
	reg.MustRegister(b.exports, b.rows, b.batches, b.duration)
	return b, nil
}

// IncCounter implements metrics.Backend. Metric names outside the export set
// are dropped; the collectors are fixed at registration time.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "qexport_exports_total":
		b.exports.WithLabelValues(labels["job"], labels["status"]).Add(delta)
	case "qexport_rows_total":
		b.rows.WithLabelValues(labels["job"]).Add(delta)
	case "qexport_batches_total":
		b.batches.WithLabelValues(labels["job"]).Add(delta)
	}
}

// Observe implements metrics.Backend for duration-style metrics.
func (b *Backend) Observe(name string, value float64, labels metrics.Labels) {
	if name == "qexport_export_duration_seconds" {
		b.duration.WithLabelValues(labels["job"], labels["status"]).Observe(value)
	}
}

// Flush pushes all collected metrics to the Pushgateway.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
