// Package monitoring exposes Prometheus metrics of the places service.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dtroode/places-server/internal/apierror"
)

const OutcomeSuccess = "success"

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	lifecycle       *prometheus.CounterVec
	cleanupFailures *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		lifecycle: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "places_lifecycle_operations_total",
				Help: "Place lifecycle operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		cleanupFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "places_image_cleanup_failures_total",
				Help: "Image deletions that failed after a create or delete",
			},
			[]string{"reason"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "places_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}

// ObserveLifecycle counts one lifecycle operation. The outcome label is
// "success" for a nil err and the error kind otherwise.
func (m *Metrics) ObserveLifecycle(operation string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = string(apierror.KindOf(err))
	}
	m.lifecycle.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ImageCleanupFailed(reason string) {
	if m == nil {
		return
	}
	m.cleanupFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveRequest(method, path, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}
