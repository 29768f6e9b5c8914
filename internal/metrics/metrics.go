// Package metrics exports upload service counters to Prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "uploads"

// Outcome labels shared by every counter.
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
	OutcomeServed       = "served"
	OutcomeDeleted      = "deleted"
	OutcomeUnsupported  = "unsupported_type"
	OutcomeSizeExceeded = "size_exceeded"
)

// Recorder captures telemetry for upload, fetch and delete requests.
type Recorder interface {
	RecordUpload(category, outcome string, bytes int64)
	RecordFetch(outcome string)
	RecordDelete(outcome string)
}

// PrometheusRecorder implements Recorder with Prometheus counters.
type PrometheusRecorder struct {
	uploads     *prometheus.CounterVec
	uploadBytes *prometheus.CounterVec
	fetches     *prometheus.CounterVec
	deletes     *prometheus.CounterVec
}

// NewPrometheusRecorder registers the service counters on reg, reusing
// collectors that are already registered.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_requests_total",
			Help:      "Upload requests by category and outcome.",
		}, []string{"category", "outcome"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes of accepted uploads persisted to the store.",
		}, []string{"category"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Fetch requests by outcome.",
		}, []string{"outcome"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_requests_total",
			Help:      "Delete requests by outcome.",
		}, []string{"outcome"}),
	}

	vecs := []**prometheus.CounterVec{&r.uploads, &r.uploadBytes, &r.fetches, &r.deletes}
	for _, vec := range vecs {
		if err := reg.Register(*vec); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					*vec = existing
					continue
				}
			}
			return nil, fmt.Errorf("register upload metric: %w", err)
		}
	}
	return r, nil
}

// RecordUpload counts one upload. bytes is added to the stored total only
// for accepted uploads.
func (r *PrometheusRecorder) RecordUpload(category, outcome string, bytes int64) {
	if r == nil {
		return
	}
	if category == "" {
		category = "none"
	}
	r.uploads.WithLabelValues(category, outcome).Inc()
	if outcome == OutcomeAccepted && bytes > 0 {
		r.uploadBytes.WithLabelValues(category).Add(float64(bytes))
	}
}

func (r *PrometheusRecorder) RecordFetch(outcome string) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) RecordDelete(outcome string) {
	if r == nil {
		return
	}
	r.deletes.WithLabelValues(outcome).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordUpload(string, string, int64) {}

func (Nop) RecordFetch(string) {}

func (Nop) RecordDelete(string) {}
