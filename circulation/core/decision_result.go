package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// A decision can produce several events which must be appended together,
// e.g. a failed approval records the failure and enqueues the requester.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(events...), or ErrorDecision(err, events...).
type DecisionResult struct {
	Outcome string       // "idempotent", "success", or "error"
	Events  DomainEvents // empty for idempotent decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult with events to append.
func SuccessDecision(event DomainEvent, events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  append(DomainEvents{event}, events...),
	}
}

// ErrorDecision creates a DecisionResult for a business rule violation.
// The events (usually a CirculationActionFailed) are still appended.
func ErrorDecision(err error, events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Events:  events,
		Err:     err,
	}
}

// HasEventsToAppend returns true if there is at least one event to append.
func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome != idempotentOutcome && len(r.Events) > 0
}

// IsIdempotent returns true if nothing had to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
