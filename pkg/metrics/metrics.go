// Package metrics records Prometheus metrics for Mailgun API calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Error kinds used as the "kind" label of the errors counter.
const (
	KindTransport = "transport"
	KindStatus    = "status"
	KindDecode    = "decode"
)

// Recorder holds the API call collectors. A nil *Recorder records nothing.
type Recorder struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them on reg.
// It panics if any of them is already registered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailgun",
				Subsystem: "api",
				Name:      "calls_total",
				Help:      "Total number of Mailgun API calls by operation and HTTP status.",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mailgun",
				Subsystem: "api",
				Name:      "call_duration_seconds",
				Help:      "Duration of Mailgun API calls in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mailgun",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Total number of failed Mailgun API calls by operation and error kind.",
			},
			[]string{"operation", "kind"},
		),
	}

	reg.MustRegister(r.calls, r.duration, r.errors)
	return r
}

// ObserveCall records one completed HTTP exchange.
func (r *Recorder) ObserveCall(operation string, statusCode int, d time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	r.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordError records a failed call of the given kind.
func (r *Recorder) RecordError(operation, kind string) {
	if r == nil {
		return
	}
	r.errors.WithLabelValues(operation, kind).Inc()
}

// CallTimer times a single API call.
type CallTimer struct {
	recorder  *Recorder
	operation string
	start     time.Time
}

// NewCallTimer starts timing a call to operation.
func (r *Recorder) NewCallTimer(operation string) *CallTimer {
	return &CallTimer{
		recorder:  r,
		operation: operation,
		start:     time.Now(),
	}
}

// Done records the call with the response status.
func (t *CallTimer) Done(statusCode int) {
	t.recorder.ObserveCall(t.operation, statusCode, time.Since(t.start))
}

// Error records a failed call. Transport failures have no status, so the
// duration is recorded without a calls_total increment.
func (t *CallTimer) Error(kind string) {
	if t.recorder == nil {
		return
	}
	if kind == KindTransport {
		t.recorder.duration.WithLabelValues(t.operation).Observe(time.Since(t.start).Seconds())
	}
	t.recorder.RecordError(t.operation, kind)
}
