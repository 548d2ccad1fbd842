package spies

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy captures every metrics call. It implements eventstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []MetricRecord
	counters  []MetricRecord
	values    []MetricRecord
}

// MetricRecord is one captured call. Duration is set for duration records, Value for value records.
type MetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, MetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, MetricRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, MetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Durations returns a copy of the captured duration records.
func (s *MetricsCollectorSpy) Durations() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]MetricRecord(nil), s.durations...)
}

// Counters returns a copy of the captured counter records.
func (s *MetricsCollectorSpy) Counters() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]MetricRecord(nil), s.counters...)
}

// Values returns a copy of the captured value records.
func (s *MetricsCollectorSpy) Values() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]MetricRecord(nil), s.values...)
}

// HasDuration reports whether a duration for metric was recorded with all the given labels.
func (s *MetricsCollectorSpy) HasDuration(metric string, labels map[string]string) bool {
	return containsRecord(s.Durations(), metric, labels)
}

// HasCounter reports whether counter metric was incremented with all the given labels.
func (s *MetricsCollectorSpy) HasCounter(metric string, labels map[string]string) bool {
	return containsRecord(s.Counters(), metric, labels)
}

// HasValue reports whether a value for metric was recorded with all the given labels.
func (s *MetricsCollectorSpy) HasValue(metric string, labels map[string]string) bool {
	return containsRecord(s.Values(), metric, labels)
}

// CountCounter counts the increments of metric.
func (s *MetricsCollectorSpy) CountCounter(metric string) int {
	count := 0
	for _, record := range s.Counters() {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

func containsRecord(records []MetricRecord, metric string, labels map[string]string) bool {
	for _, record := range records {
		if record.Metric != metric {
			continue
		}

		matched := true
		for k, v := range labels {
			if record.Labels[k] != v {
				matched = false
				break
			}
		}

		if matched {
			return true
		}
	}

	return false
}
