package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the collectors for the transport and cache layers.
// Each instance owns its registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	cacheFetches  *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	suggestions   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "transport",
				Name:      "requests_total",
				Help:      "Outbound backend requests by method, path and status.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "transport",
				Name:      "request_duration_seconds",
				Help:      "Duration of outbound backend requests.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
			},
			[]string{"method", "path"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Cache lookups by resource kind and outcome (hit, stale, miss).",
			},
			[]string{"kind", "outcome"},
		),
		cacheFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "cache",
				Name:      "fetches_total",
				Help:      "Network fetches issued by the cache by kind and result.",
			},
			[]string{"kind", "result"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "cache",
				Name:      "invalidations_total",
				Help:      "Cache invalidations by resource kind.",
			},
			[]string{"kind"},
		),
		suggestions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fuel_dispatch",
				Subsystem: "suggest",
				Name:      "requests_total",
				Help:      "Suggestion provider requests by result (applied, discarded, failed).",
			},
			[]string{"result"},
		),
	}

	m.Registry.MustRegister(
		m.requests,
		m.duration,
		m.cacheLookups,
		m.cacheFetches,
		m.invalidations,
		m.suggestions,
	)
	return m
}

// A nil *Metrics is valid and records nothing.

func (m *Metrics) ObserveRequest(method, path string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(dur.Seconds())
}

func (m *Metrics) CacheLookup(kind, outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) CacheFetch(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.cacheFetches.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) Invalidated(kind string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(kind).Inc()
}

func (m *Metrics) Suggestion(result string) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(result).Inc()
}

// WriteText dumps the current values in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %q: %w", mf.GetName(), err)
		}
	}
	return nil
}
