package shell

import (
	"context"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// EventStore is what the coordinator needs from an event store engine.
// Both postgresengine.EventStore and memengine.EventStore implement it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)

	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		events ...eventstore.StorableEvent,
	) error
}

// PolicyStore provides the circulation policy of a library. The engine never writes policies.
type PolicyStore interface {
	PolicyFor(ctx context.Context, libraryID core.LibraryIDString) (core.LibraryPolicy, error)
}

// Notifier dispatches member notifications after a commit. Failures never roll back the commit.
type Notifier interface {
	Notify(ctx context.Context, notification core.Notification) error
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the command workflow: loading the boundary, deciding, and applying the operation set.
// It is designed to be wrapped with the observability decorators of the observable package.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult represents the contract for all query result types (projections).
// GetSequenceNumber returns the highest event sequence number included in the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreQueryHandler defines the contract for components that process queries with pure projection logic.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
