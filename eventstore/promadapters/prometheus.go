// Package promadapters implements eventstore.MetricsCollector on top of the Prometheus client.
package promadapters

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Default histogram buckets for latency metrics (in seconds).
var defaultBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

// MetricsCollector creates a HistogramVec, CounterVec or GaugeVec per metric name on first use.
//
// The label names of a vector are fixed by the first call for that metric. Later calls are
// projected onto them: missing labels become "", unknown labels are dropped.
type MetricsCollector struct {
	reg        prometheus.Registerer
	mu         sync.Mutex
	histograms map[string]vec[*prometheus.HistogramVec]
	counters   map[string]vec[*prometheus.CounterVec]
	gauges     map[string]vec[*prometheus.GaugeVec]
}

type vec[T any] struct {
	collector  T
	labelNames []string
}

func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		reg:        reg,
		histograms: make(map[string]vec[*prometheus.HistogramVec]),
		counters:   make(map[string]vec[*prometheus.CounterVec]),
		gauges:     make(map[string]vec[*prometheus.GaugeVec]),
	}
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.mu.Lock()
	h, ok := m.histograms[metric]
	if !ok {
		names := labelNames(labels)
		h = vec[*prometheus.HistogramVec]{
			collector: register(m.reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    metric,
				Help:    "Duration in seconds",
				Buckets: defaultBuckets,
			}, names)),
			labelNames: names,
		}
		m.histograms[metric] = h
	}
	m.mu.Unlock()

	h.collector.With(project(h.labelNames, labels)).Observe(duration.Seconds())
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	c, ok := m.counters[metric]
	if !ok {
		names := labelNames(labels)
		c = vec[*prometheus.CounterVec]{
			collector:  register(m.reg, prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: "Total count"}, names)),
			labelNames: names,
		}
		m.counters[metric] = c
	}
	m.mu.Unlock()

	c.collector.With(project(c.labelNames, labels)).Inc()
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	g, ok := m.gauges[metric]
	if !ok {
		names := labelNames(labels)
		g = vec[*prometheus.GaugeVec]{
			collector:  register(m.reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: "Last observed value"}, names)),
			labelNames: names,
		}
		m.gauges[metric] = g
	}
	m.mu.Unlock()

	g.collector.With(project(g.labelNames, labels)).Set(value)
}

// register returns the already registered collector when another MetricsCollector on the same
// registry created the metric first.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) T {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
	}

	return collector
}

func labelNames(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

func project(names []string, labels map[string]string) prometheus.Labels {
	projected := make(prometheus.Labels, len(names))
	for _, name := range names {
		projected[name] = labels[name]
	}

	return projected
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
