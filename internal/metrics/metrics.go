// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from export runs.
//
// The package exposes a narrow Backend interface (counters plus duration
// observations) behind a global, pluggable backend that defaults to a no-op,
// so instrumentation is always safe to call even when nothing is configured.
// Concrete systems (Prometheus Pushgateway, Datadog) live in subpackages and
// are the only places with vendor-specific dependencies.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// Observe records a value in a duration/size style metric.
	Observe(name string, value float64, labels Labels)
	// Flush pushes collected metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels) {}
func (nopBackend) Observe(string, float64, Labels)    {}
func (nopBackend) Flush() error                       { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordExport captures the outcome of one export run: an outcome counter,
// row and batch totals, and the run duration, labeled by job and status.
func RecordExport(job string, rows, batches int64, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "status": status}

	backend.IncCounter("qexport_exports_total", 1, lbls)
	backend.Observe("qexport_export_duration_seconds", d.Seconds(), lbls)
	if rows > 0 {
		backend.IncCounter("qexport_rows_total", float64(rows), Labels{"job": job})
	}
	if batches > 0 {
		backend.IncCounter("qexport_batches_total", float64(batches), Labels{"job": job})
	}
}
