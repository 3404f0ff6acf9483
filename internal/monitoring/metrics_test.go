package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/places-server/internal/apierror"
)

func TestMetrics_ObserveLifecycle(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLifecycle("create", nil)
	m.ObserveLifecycle("create", nil)
	m.ObserveLifecycle("delete", apierror.NewErrValidation("bad"))
	m.ObserveLifecycle("delete", errors.New("boom"))

	assert.Equal(t, 2.0, promtest.ToFloat64(m.lifecycle.WithLabelValues("create", OutcomeSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.lifecycle.WithLabelValues("delete", "validation")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.lifecycle.WithLabelValues("delete", "persistence")))
}

func TestMetrics_ImageCleanupFailed(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ImageCleanupFailed("delete")

	assert.Equal(t, 1.0, promtest.ToFloat64(m.cleanupFailures.WithLabelValues("delete")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/api/places/{pid}", "200", 10*time.Millisecond)

	n, err := promtest.GatherAndCount(reg, "places_http_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveLifecycle("create", nil)
		m.ImageCleanupFailed("create")
		m.ObserveRequest("GET", "/", "200", time.Second)
	})
}
