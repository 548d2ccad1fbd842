// Package eventstore holds the engine-independent building blocks of the circulation event log.
//
// Every state change of the library circulation is recorded as an event. There are no per-entity
// streams: a command handler picks the slice of history it needs with a Filter (event types combined
// with JSON payload predicates) and appends its decision under the same Filter, guarded by the highest
// sequence number it saw. If anything matching the Filter was written in between, the append fails
// with ErrConcurrencyConflict and nothing is written.
//
// Typical usage:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.LoanStartedEventType, core.LoanReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := engine.Query(ctx, filter)
//	// ... decide ...
//	err = engine.Append(ctx, filter, maxSeq, newEvents...)
//
// Engines live in subpackages: postgresengine for production and memengine for tests and local runs.
package eventstore
