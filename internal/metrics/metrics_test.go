package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// spyBackend records every call for assertions.
type spyBackend struct {
	mu       sync.Mutex
	counters map[string]float64
	statuses map[string]string
	observed map[string]float64
	flushed  int
}

func newSpy() *spyBackend {
	return &spyBackend{
		counters: map[string]float64{},
		statuses: map[string]string{},
		observed: map[string]float64{},
	}
}

func (s *spyBackend) IncCounter(name string, delta float64, labels Labels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] += delta
	if st, ok := labels["status"]; ok {
		s.statuses[name] = st
	}
}

func (s *spyBackend) Observe(name string, value float64, labels Labels) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed[name] = value
	if st, ok := labels["status"]; ok {
		s.statuses[name] = st
	}
}

func (s *spyBackend) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed++
	return nil
}

// Global backend state means these tests must not run in parallel.

func TestRecordExport_Success(t *testing.T) {
	spy := newSpy()
	SetBackend(spy)
	defer SetBackend(nopBackend{})

	RecordExport("orders", 250, 3, nil, 2*time.Second)

	if got := spy.counters["qexport_exports_total"]; got != 1 {
		t.Fatalf("exports_total = %v, want 1", got)
	}
	if got := spy.counters["qexport_rows_total"]; got != 250 {
		t.Fatalf("rows_total = %v, want 250", got)
	}
	if got := spy.counters["qexport_batches_total"]; got != 3 {
		t.Fatalf("batches_total = %v, want 3", got)
	}
	if got := spy.observed["qexport_export_duration_seconds"]; got != 2 {
		t.Fatalf("duration = %v, want 2", got)
	}
	if got := spy.statuses["qexport_exports_total"]; got != "success" {
		t.Fatalf("status = %q, want success", got)
	}
}

func TestRecordExport_FailureSkipsZeroTotals(t *testing.T) {
	spy := newSpy()
	SetBackend(spy)
	defer SetBackend(nopBackend{})

	RecordExport("orders", 0, 0, errors.New("boom"), time.Millisecond)

	if got := spy.statuses["qexport_exports_total"]; got != "failure" {
		t.Fatalf("status = %q, want failure", got)
	}
	if _, ok := spy.counters["qexport_rows_total"]; ok {
		t.Fatal("rows_total should not be emitted when zero")
	}
	if _, ok := spy.counters["qexport_batches_total"]; ok {
		t.Fatal("batches_total should not be emitted when zero")
	}
}

func TestSetBackend_NilKeepsCurrent(t *testing.T) {
	spy := newSpy()
	SetBackend(spy)
	defer SetBackend(nopBackend{})

	SetBackend(nil)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if spy.flushed != 1 {
		t.Fatalf("flushed = %d, want 1 (nil must not replace backend)", spy.flushed)
	}
}
