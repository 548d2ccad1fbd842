package memengine

import (
	"context"
	"errors"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/internal/instrument"
)

const (
	engineName             = "memory"
	errTypeDecodingPayload = "payload decoding failed"
)

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
	payload        map[string]any
}

// EventStore keeps all events in a slice guarded by a mutex.
// Append evaluates the filter and writes under the same lock, which gives it the atomicity of
// the single conditional INSERT used by postgresengine.
type EventStore struct {
	mu       sync.RWMutex
	events   []storedEvent
	observer instrument.Observer
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.observer.Logger = logger
		return nil
	}
}

// WithContextualLogger sets the context-aware logger for the EventStore.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.observer.ContextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.observer.Metrics = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.observer.Tracing = collector
		return nil
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{observer: instrument.Observer{Engine: engineName}}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns all events matching filter in sequence order,
// together with the highest sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.StartQuery(ctx)

	if err := ctx.Err(); err != nil {
		op.Failed(instrument.StatusError, err)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	stream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if matches(filter, stored) {
			stream = append(stream, stored.event)
			maxSequenceNumber = stored.sequenceNumber
		}
	}

	op.Succeeded(len(stream), maxSequenceNumber)

	return stream, maxSequenceNumber, nil
}

// Append writes all events, or none of them if the stream selected by filter has moved past
// expectedMaxSequenceNumber, in which case eventstore.ErrConcurrencyConflict is returned.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	ctx, op := es.observer.StartAppend(ctx, len(events), expectedMaxSequenceNumber)

	if len(events) == 0 {
		op.Failed(instrument.StatusError, eventstore.ErrNoEventsToAppend)
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		op.Failed(instrument.StatusError, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	decoded := make([]storedEvent, 0, len(events))
	for _, event := range events {
		payload := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
			op.Failed(errTypeDecodingPayload, err)
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		decoded = append(decoded, storedEvent{event: event, payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	current := eventstore.MaxSequenceNumberUint(0)
	for _, stored := range es.events {
		if matches(filter, stored) {
			current = stored.sequenceNumber
		}
	}

	if current != expectedMaxSequenceNumber {
		op.Conflicted(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.events))
	for i := range decoded {
		next++
		decoded[i].sequenceNumber = next
	}

	es.events = append(es.events, decoded...)
	op.Succeeded(len(decoded), next)

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if filter.IsEmpty() {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	predicates := item.Predicates()
	if len(predicates) == 0 {
		return true
	}

	hit := func(p eventstore.FilterPredicate) bool {
		val, ok := stored.payload[p.Key()].(string)
		return ok && val == p.Val()
	}

	if item.AllPredicatesMustMatch() {
		for _, p := range predicates {
			if !hit(p) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(predicates, hit)
}
