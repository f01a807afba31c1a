package dashboard

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	recomputations   prometheus.Counter
	recomputeSeconds prometheus.Histogram
	cacheHits        prometheus.Counter
	datasetRecords   prometheus.Gauge
	reloads          *prometheus.CounterVec
}

// NewMetrics registers the dashboard collectors plus Go runtime and process metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visitordash_recomputations_total",
			Help: "Total number of aggregation passes over the dataset.",
		}),
		recomputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "visitordash_recompute_seconds",
			Help:    "Duration of a single aggregation pass.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visitordash_cache_hits_total",
			Help: "Total number of selections served from the summary cache.",
		}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "visitordash_dataset_records",
			Help: "Number of booking records in the current dataset snapshot.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "visitordash_dataset_reloads_total",
			Help: "Dataset reload attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.recomputations,
		m.recomputeSeconds,
		m.cacheHits,
		m.datasetRecords,
		m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRecompute records one aggregation pass.
func (m *Metrics) ObserveRecompute(d time.Duration) {
	if m == nil {
		return
	}
	m.recomputations.Inc()
	m.recomputeSeconds.Observe(d.Seconds())
}

// CacheHit records a selection answered from cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// SetDatasetRecords records the size of the active snapshot.
func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

// Reload records the outcome of a dataset reload.
func (m *Metrics) Reload(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}
