package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RegistryMetrics holds all Prometheus metrics of the registry resolver
type RegistryMetrics struct {
	// Cache metrics
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
	CachedEntities *prometheus.GaugeVec

	// Resolution metrics
	ResolveDuration *prometheus.HistogramVec
	ResolveErrors   *prometheus.CounterVec

	// Cross-validation metrics
	RunsValidated        prometheus.Counter
	ConstraintViolations *prometheus.CounterVec

	// Snapshot for CLI/JSON output - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON output
type MetricsSnapshot struct {
	CacheHits            int64
	CacheMisses          int64
	ResolveErrors        int64
	ConstraintViolations int64
	TotalDuration        float64 // sum of all resolution durations
	ResolveCount         int64   // count for averaging
}

// NewRegistryMetrics creates registry metrics registered on reg
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	factory := promauto.With(reg)

	return &RegistryMetrics{
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskregistry_cache_hits_total",
				Help: "Total number of entity lookups served from the cache",
			},
			[]string{"category"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskregistry_cache_misses_total",
				Help: "Total number of entity lookups that required loading from disk",
			},
			[]string{"category"},
		),
		CachedEntities: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "taskregistry_cached_entities",
				Help: "Number of entities currently cached",
			},
			[]string{"category"},
		),
		ResolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskregistry_resolve_duration_seconds",
				Help:    "Time spent loading and validating an entity",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"category"},
		),
		ResolveErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskregistry_resolve_errors_total",
				Help: "Total number of failed entity resolutions",
			},
			[]string{"category", "kind"},
		),
		RunsValidated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "taskregistry_runs_validated_total",
				Help: "Total number of runs that passed cross-validation",
			},
		),
		ConstraintViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskregistry_constraint_violations_total",
				Help: "Total number of cross-validation failures",
			},
			[]string{"kind"},
		),
	}
}

// RecordCacheHit records a lookup served from the cache
func (m *RegistryMetrics) RecordCacheHit(category string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(category).Inc()

	m.mu.Lock()
	m.snapshot.CacheHits++
	m.mu.Unlock()
}

// RecordResolve records a cache miss and how long loading took
func (m *RegistryMetrics) RecordResolve(category string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(category).Inc()
	m.ResolveDuration.WithLabelValues(category).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.CacheMisses++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.ResolveCount++
	m.mu.Unlock()
}

// RecordResolveError records a failed resolution
func (m *RegistryMetrics) RecordResolveError(category, kind string) {
	if m == nil {
		return
	}
	m.ResolveErrors.WithLabelValues(category, kind).Inc()

	m.mu.Lock()
	m.snapshot.ResolveErrors++
	m.mu.Unlock()
}

// SetCachedEntities sets the number of cached entities of a category
func (m *RegistryMetrics) SetCachedEntities(category string, count int64) {
	if m == nil {
		return
	}
	m.CachedEntities.WithLabelValues(category).Set(float64(count))
}

// RecordRunValidated records a run that passed cross-validation
func (m *RegistryMetrics) RecordRunValidated() {
	if m == nil {
		return
	}
	m.RunsValidated.Inc()
}

// RecordConstraintViolation records a cross-validation failure
func (m *RegistryMetrics) RecordConstraintViolation(kind string) {
	if m == nil {
		return
	}
	m.ConstraintViolations.WithLabelValues(kind).Inc()

	m.mu.Lock()
	m.snapshot.ConstraintViolations++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters
func (m *RegistryMetrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// AverageResolveDuration returns the mean resolution time
func (s MetricsSnapshot) AverageResolveDuration() time.Duration {
	if s.ResolveCount == 0 {
		return 0
	}
	return time.Duration(s.TotalDuration / float64(s.ResolveCount) * float64(time.Second))
}
