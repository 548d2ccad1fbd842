package instrument

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricStorageErrors        = "eventstore_storage_errors_total"

	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess             = "success"
	StatusError               = "error"
	StatusConcurrencyConflict = "concurrency_conflict"

	AttrEngine        = "engine"
	AttrOperation     = "operation"
	AttrStatus        = "status"
	AttrErrorType     = "error_type"
	AttrEventCount    = "event_count"
	AttrMaxSequence   = "max_sequence"
	AttrExpectedSeq   = "expected_sequence"
	AttrDurationMS    = "duration_ms"
	AttrQuery         = "query"
	AttrError         = "error"
	AttrConsistency   = "consistency"
	logMsgOperation   = "eventstore operation: "
	logMsgSQLExecuted = "executed sql for: "
	logMsgCompleted   = "completed"
	logMsgConflict    = "concurrency conflict detected"
)

// Observer bundles the optional observability sinks of an engine. The zero value is silent.
type Observer struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation tracks a single Query or Append from start to outcome.
type Operation struct {
	observer Observer
	ctx      context.Context
	span     eventstore.SpanContext
	name     string
	started  time.Time
}

// StartQuery opens the span for a Query and returns the context to pass down.
func (o Observer) StartQuery(ctx context.Context) (context.Context, *Operation) {
	return o.start(ctx, OperationQuery, SpanNameQuery, map[string]string{
		AttrConsistency: eventstore.GetConsistencyLevel(ctx).String(),
	})
}

// StartAppend opens the span for an Append.
func (o Observer) StartAppend(
	ctx context.Context,
	eventCount int,
	expected eventstore.MaxSequenceNumberUint,
) (context.Context, *Operation) {

	return o.start(ctx, OperationAppend, SpanNameAppend, map[string]string{
		AttrEventCount:  fmt.Sprintf("%d", eventCount),
		AttrExpectedSeq: fmt.Sprintf("%d", expected),
	})
}

func (o Observer) start(ctx context.Context, operation, spanName string, attrs map[string]string) (context.Context, *Operation) {
	op := &Operation{observer: o, ctx: ctx, name: operation, started: time.Now()}

	if o.Tracing != nil {
		attrs[AttrEngine] = o.Engine
		attrs[AttrOperation] = operation
		op.ctx, op.span = o.Tracing.StartSpan(ctx, spanName, attrs)
	}

	return op.ctx, op
}

// Succeeded records a finished operation. eventCount is the number of events read or written.
func (op *Operation) Succeeded(eventCount int, maxSequence eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.started)

	op.recordDuration(duration, StatusSuccess)
	op.recordValue(op.countMetric(), float64(eventCount), StatusSuccess)
	op.finishSpan(StatusSuccess, map[string]string{
		AttrEventCount:  fmt.Sprintf("%d", eventCount),
		AttrMaxSequence: fmt.Sprintf("%d", maxSequence),
		AttrDurationMS:  fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	})
	op.observer.info(op.ctx, logMsgOperation+op.name+" "+logMsgCompleted,
		AttrEngine, op.observer.Engine,
		AttrEventCount, eventCount,
		AttrDurationMS, ToMilliseconds(duration),
	)
}

// Failed records a storage or mapping error.
func (op *Operation) Failed(errorType string, err error) {
	duration := time.Since(op.started)

	op.recordDuration(duration, StatusError)
	op.incrementCounter(MetricStorageErrors, map[string]string{
		AttrOperation: op.name,
		AttrStatus:    StatusError,
		AttrErrorType: errorType,
	})
	op.finishSpan(StatusError, map[string]string{AttrErrorType: errorType})
	op.observer.error(op.ctx, errorType, AttrEngine, op.observer.Engine, AttrOperation, op.name, AttrError, err.Error())
}

// Conflicted records a rejected conditional append.
func (op *Operation) Conflicted(expected eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.started)

	op.recordDuration(duration, StatusConcurrencyConflict)
	op.incrementCounter(MetricConcurrencyConflicts, map[string]string{AttrOperation: op.name})
	op.finishSpan(StatusConcurrencyConflict, map[string]string{AttrExpectedSeq: fmt.Sprintf("%d", expected)})
	op.observer.info(op.ctx, logMsgOperation+logMsgConflict,
		AttrEngine, op.observer.Engine,
		AttrExpectedSeq, expected,
	)
}

func (op *Operation) countMetric() string {
	if op.name == OperationAppend {
		return MetricEventsAppended
	}

	return MetricEventsQueried
}

func (op *Operation) durationMetric() string {
	if op.name == OperationAppend {
		return MetricAppendDuration
	}

	return MetricQueryDuration
}

func (op *Operation) recordDuration(duration time.Duration, status string) {
	collector := op.observer.Metrics
	if collector == nil {
		return
	}

	labels := map[string]string{AttrOperation: op.name, AttrStatus: status, AttrEngine: op.observer.Engine}
	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(op.ctx, op.durationMetric(), duration, labels)
		return
	}

	collector.RecordDuration(op.durationMetric(), duration, labels)
}

func (op *Operation) recordValue(metric string, value float64, status string) {
	collector := op.observer.Metrics
	if collector == nil {
		return
	}

	labels := map[string]string{AttrOperation: op.name, AttrStatus: status, AttrEngine: op.observer.Engine}
	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(op.ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

func (op *Operation) incrementCounter(metric string, labels map[string]string) {
	collector := op.observer.Metrics
	if collector == nil {
		return
	}

	labels[AttrEngine] = op.observer.Engine
	if contextual, ok := collector.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(op.ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.observer.Tracing == nil || op.span == nil {
		return
	}

	op.observer.Tracing.FinishSpan(op.span, status, attrs)
}

// LogSQL logs an executed statement at debug level.
func (o Observer) LogSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	args := []any{AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery}

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}

	if o.Logger != nil {
		o.Logger.Debug(logMsgSQLExecuted+action, args...)
	}
}

// Warn logs a non-fatal problem such as a failed rows.Close.
func (o Observer) Warn(ctx context.Context, msg string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, msg, args...)
	}

	if o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}
}

func (o Observer) info(ctx context.Context, msg string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, msg, args...)
	}

	if o.Logger != nil {
		o.Logger.Info(msg, args...)
	}
}

func (o Observer) error(ctx context.Context, msg string, args ...any) {
	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, msg, args...)
	}

	if o.Logger != nil {
		o.Logger.Error(msg, args...)
	}
}

// ToMilliseconds converts d to milliseconds rounded to three decimals.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
