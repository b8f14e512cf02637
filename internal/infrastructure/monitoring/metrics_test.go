package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryMetricsRecord(t *testing.T) {
	m := NewRegistryMetrics(prometheus.NewRegistry())

	m.RecordCacheHit("tasks")
	m.RecordCacheHit("tasks")
	m.RecordResolve("tasks", 10*time.Millisecond)
	m.RecordResolveError("packages", "not_found")
	m.SetCachedEntities("tasks", 3)
	m.RecordRunValidated()
	m.RecordConstraintViolation("metric")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResolveErrors.WithLabelValues("packages", "not_found")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CachedEntities.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsValidated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConstraintViolations.WithLabelValues("metric")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.CacheHits)
	assert.Equal(t, int64(1), snap.CacheMisses)
	assert.Equal(t, int64(1), snap.ResolveErrors)
	assert.Equal(t, int64(1), snap.ConstraintViolations)
	assert.Equal(t, 10*time.Millisecond, snap.AverageResolveDuration().Round(time.Millisecond))
}

func TestNilRegistryMetricsIsNoop(t *testing.T) {
	var m *RegistryMetrics

	assert.NotPanics(t, func() {
		m.RecordCacheHit("tasks")
		m.RecordResolve("tasks", time.Millisecond)
		m.RecordResolveError("tasks", "validation")
		m.SetCachedEntities("tasks", 1)
		m.RecordRunValidated()
		m.RecordConstraintViolation("report")
	})
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRegistryMetrics(prometheus.NewRegistry())
		NewRegistryMetrics(prometheus.NewRegistry())
	})
}
