package memengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/internal/instrument"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/memengine"
	"github.com/hexs00si/LMS-Infy-T4-sub001/testutil/spies"
)

func Test_Query_ReturnsOnlyMatchingEventsWithTheirMaxSequence(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	ctx := t.Context()
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-2"}`))
	givenAppended(t, es, event(t, "LoanStarted", `{"BookID":"b-1","MemberID":"m-1"}`))

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", "b-1")).
		Finalize()

	// act
	events, maxSeq, err := es.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "BookAddedToCirculation", events[0].EventType)
	assert.Equal(t, "LoanStarted", events[1].EventType)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSeq)
}

func Test_Query_PredicatesOnlyMatchTopLevelStrings(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":{"nested":"b-1"},"Copies":3}`))

	// act
	events, maxSeq, err := es.Query(t.Context(), eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", "b-1"), eventstore.P("Copies", "3")).
		Finalize())

	// assert
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
}

func Test_Query_AllPredicatesMustMatch(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	givenAppended(t, es, event(t, "LoanStarted", `{"BookID":"b-1","MemberID":"m-1"}`))
	givenAppended(t, es, event(t, "LoanStarted", `{"BookID":"b-1","MemberID":"m-2"}`))

	// act
	events, _, err := es.Query(t.Context(), eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("LoanStarted").
		AndAllPredicatesOf(eventstore.P("BookID", "b-1"), eventstore.P("MemberID", "m-2")).
		Finalize())

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.JSONEq(t, `{"BookID":"b-1","MemberID":"m-2"}`, string(events[0].PayloadJSON))
}

func Test_Append_FailsWithConcurrencyConflict_WhenStreamMoved(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	filter := bookFilter("b-1")
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))

	// act
	err := es.Append(t.Context(), filter, 0, event(t, "LoanStarted", `{"BookID":"b-1"}`))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len())
}

func Test_Append_IgnoresEventsOutsideTheFilter(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-2"}`))

	// act
	err := es.Append(t.Context(), bookFilter("b-1"), 0, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, es.Len())
}

func Test_Append_WritesAllEventsOrNone(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))

	// act
	errStale := es.Append(t.Context(), bookFilter("b-1"), 0,
		event(t, "LoanStarted", `{"BookID":"b-1"}`),
		event(t, "IssueRequestApproved", `{"BookID":"b-1"}`),
	)
	errFresh := es.Append(t.Context(), bookFilter("b-1"), 1,
		event(t, "LoanStarted", `{"BookID":"b-1"}`),
		event(t, "IssueRequestApproved", `{"BookID":"b-1"}`),
	)

	// assert
	assert.ErrorIs(t, errStale, eventstore.ErrConcurrencyConflict)
	require.NoError(t, errFresh)

	_, maxSeq, err := es.Query(t.Context(), bookFilter("b-1"))
	require.NoError(t, err)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSeq)
}

func Test_Append_RejectsEmptyEventsAndBrokenPayloads(t *testing.T) {
	es := givenEventStore(t)

	err := es.Append(t.Context(), bookFilter("b-1"), 0)
	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)

	err = es.Append(t.Context(), bookFilter("b-1"), 0, eventstore.StorableEvent{EventType: "X", PayloadJSON: []byte("[")})
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
}

func Test_Append_OnlyOneOfConcurrentWritersWins(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))

	const writers = 8
	loanStarted := event(t, "LoanStarted", `{"BookID":"b-1"}`)
	results := make(chan error, writers)
	var wg sync.WaitGroup

	// act
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- es.Append(context.Background(), bookFilter("b-1"), 1, loanStarted)
		}()
	}

	wg.Wait()
	close(results)

	// assert
	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 2, es.Len())
}

func Test_Query_FailsOnCanceledContext(t *testing.T) {
	// arrange
	es := givenEventStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	// act
	_, _, err := es.Query(ctx, bookFilter("b-1"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Observability_RecordsMetricsSpansAndConflicts(t *testing.T) {
	// arrange
	metrics := spies.NewMetricsCollectorSpy()
	tracing := spies.NewTracingCollectorSpy()
	es, err := memengine.NewEventStore(memengine.WithMetrics(metrics), memengine.WithTracing(tracing))
	require.NoError(t, err)

	givenAppended(t, es, event(t, "BookAddedToCirculation", `{"BookID":"b-1"}`))

	// act
	_, _, _ = es.Query(t.Context(), bookFilter("b-1"))
	_ = es.Append(t.Context(), bookFilter("b-1"), 0, event(t, "LoanStarted", `{"BookID":"b-1"}`))

	// assert
	assert.True(t, metrics.HasDuration(instrument.MetricQueryDuration, map[string]string{
		instrument.AttrStatus: instrument.StatusSuccess,
		instrument.AttrEngine: "memory",
	}))
	assert.True(t, metrics.HasValue(instrument.MetricEventsQueried, nil))
	assert.Equal(t, 1, metrics.CountCounter(instrument.MetricConcurrencyConflicts))
	assert.True(t, tracing.FinishedWith(instrument.SpanNameQuery, instrument.StatusSuccess))
	assert.True(t, tracing.FinishedWith(instrument.SpanNameAppend, instrument.StatusConcurrencyConflict))
}

func givenEventStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err)

	return es
}

func givenAppended(t *testing.T, es *memengine.EventStore, e eventstore.StorableEvent) {
	t.Helper()

	_, maxSeq, err := es.Query(t.Context(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	require.NoError(t, es.Append(t.Context(), eventstore.BuildEventFilter().MatchingAnyEvent(), maxSeq, e))
}

func event(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	e, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Now(), []byte(payload))
	require.NoError(t, err)

	return e
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
