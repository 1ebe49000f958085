package prompush

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"qexport/internal/metrics"
)

func TestNewBackend_RequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend("job", ""); err == nil {
		t.Fatal("NewBackend with empty URL should fail")
	}
}

func TestBackend_CollectsKnownMetrics(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("test", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("qexport_exports_total", 1, metrics.Labels{"job": "j", "status": "success"})
	b.IncCounter("qexport_rows_total", 42, metrics.Labels{"job": "j"})
	b.IncCounter("qexport_batches_total", 2, metrics.Labels{"job": "j"})
	b.IncCounter("unrelated_total", 9, metrics.Labels{"job": "j"})
	b.Observe("qexport_export_duration_seconds", 1.5, metrics.Labels{"job": "j", "status": "success"})

	fams, err := b.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	got := map[string]bool{}
	for _, f := range fams {
		got[f.GetName()] = true
	}
	for _, want := range []string{
		"qexport_exports_total",
		"qexport_rows_total",
		"qexport_batches_total",
		"qexport_export_duration_seconds",
	} {
		if !got[want] {
			t.Errorf("metric %s not collected", want)
		}
	}
	if got["unrelated_total"] {
		t.Error("unknown metric names must be dropped")
	}
}

func TestBackend_FlushPushes(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBackend("test", srv.URL)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	b.IncCounter("qexport_exports_total", 1, metrics.Labels{"job": "j", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if hits.Load() == 0 {
		t.Fatal("Flush did not reach the gateway")
	}
}
