package promadapters_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/memengine"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/promadapters"
)

func Test_MetricsCollector_RegistersVectorsOnFirstUse(t *testing.T) {
	// arrange
	reg := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(reg)

	// act
	collector.RecordDuration("circulation_command_duration_seconds", 20*time.Millisecond, map[string]string{"command": "return_loan"})
	collector.IncrementCounter("circulation_stale_state_total", map[string]string{"command": "return_loan"})
	collector.IncrementCounter("circulation_stale_state_total", map[string]string{"command": "return_loan", "extra": "dropped"})
	collector.RecordValue("circulation_queue_length", 3, map[string]string{"book_id": "b-1"})

	// assert
	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}

	assert.ElementsMatch(t, []string{
		"circulation_command_duration_seconds",
		"circulation_stale_state_total",
		"circulation_queue_length",
	}, names)
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "circulation_stale_state_total"))
}

func Test_MetricsCollector_SharesVectorsAcrossCollectorsOnOneRegistry(t *testing.T) {
	// arrange
	reg := prometheus.NewRegistry()
	first := promadapters.NewMetricsCollector(reg)
	second := promadapters.NewMetricsCollector(reg)

	// act
	first.IncrementCounter("circulation_commands_total", map[string]string{"status": "success"})
	second.IncrementCounter("circulation_commands_total", map[string]string{"status": "success"})

	// assert
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.InDelta(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue(), 0.0001)
}

func Test_MetricsCollector_CountsEngineConflicts(t *testing.T) {
	// arrange
	reg := prometheus.NewRegistry()
	es, err := memengine.NewEventStore(memengine.WithMetrics(promadapters.NewMetricsCollector(reg)))
	require.NoError(t, err)

	event, err := eventstore.BuildStorableEventWithEmptyMetadata("BookAddedToCirculation", time.Now(), []byte(`{"BookID":"b-1"}`))
	require.NoError(t, err)
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	// act
	require.NoError(t, es.Append(t.Context(), filter, 0, event))
	assert.ErrorIs(t, es.Append(t.Context(), filter, 0, event), eventstore.ErrConcurrencyConflict)

	// assert
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "eventstore_concurrency_conflicts_total"))
}
