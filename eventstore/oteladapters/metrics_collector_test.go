package oteladapters_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/oteladapters"
)

func Test_MetricsCollector_RecordsAllInstrumentKinds(t *testing.T) {
	// arrange
	reader := sdkmetric.NewManualReader()
	collector := oteladapters.NewMetricsCollector(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("circulation-test"))
	labels := map[string]string{"operation": "append", "status": "success"}

	// act
	collector.RecordDuration("eventstore_append_duration_seconds", 150*time.Millisecond, labels)
	collector.RecordDurationContext(t.Context(), "eventstore_append_duration_seconds", 50*time.Millisecond, labels)
	collector.IncrementCounter("eventstore_concurrency_conflicts_total", labels)
	collector.IncrementCounterContext(t.Context(), "eventstore_concurrency_conflicts_total", labels)
	collector.RecordValue("circulation_queue_length", 4, nil)

	// assert
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(t.Context(), &rm))

	histogram, ok := findMetric(rm, "eventstore_append_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.2, histogram.DataPoints[0].Sum, 0.001)

	counter, ok := findMetric(rm, "eventstore_concurrency_conflicts_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, counter.DataPoints, 1)
	assert.Equal(t, int64(2), counter.DataPoints[0].Value)

	gauge, ok := findMetric(rm, "circulation_queue_length").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 4.0, gauge.DataPoints[0].Value, 0.0001)
}

func findMetric(rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	return metricdata.Metrics{}
}
