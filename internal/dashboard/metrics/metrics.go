package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dashboard module: composition
// latency, cache effectiveness, and conflict volume.
type Metrics struct {
	ComposeDuration  prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ConflictsFlagged prometheus.Counter
}

// New creates a Metrics instance with all dashboard module metrics registered.
func New() *Metrics {
	return &Metrics{
		ComposeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "classdesk_dashboard_compose_duration_seconds",
			Help:    "Duration of full dashboard composition (resolve, filter, detect, compose)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "classdesk_dashboard_cache_hits_total",
			Help: "Total dashboard cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "classdesk_dashboard_cache_misses_total",
			Help: "Total dashboard cache misses (including version mismatches)",
		}),
		ConflictsFlagged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "classdesk_conflicts_flagged_total",
			Help: "Total conflict findings written back as flagged records",
		}),
	}
}

// ObserveCompose records the duration of a full composition.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCompose(start time.Time) {
	m.ComposeDuration.Observe(time.Since(start).Seconds())
}

// IncrementCacheHit records a dashboard served from cache.
func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

// IncrementCacheMiss records a dashboard recomputed on miss.
func (m *Metrics) IncrementCacheMiss() {
	m.CacheMisses.Inc()
}

// AddConflictsFlagged records findings persisted after detection.
func (m *Metrics) AddConflictsFlagged(n int) {
	m.ConflictsFlagged.Add(float64(n))
}
