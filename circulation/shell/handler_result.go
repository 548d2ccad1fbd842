package shell

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome (idempotency, appended events) and execution metadata (retry information)
// without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates whether the operation was idempotent (no state change needed).
	Idempotent bool

	// Events are the domain events committed by the operation, in append order.
	Events core.DomainEvents

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	// Values: "none", "stale_state", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted indicates whether max retry attempts were reached with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for successful operations (non-idempotent).
func NewSuccessResult(retryMetrics RetryMetrics, events core.DomainEvents) HandlerResult {
	return HandlerResult{
		Events:           events,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       true,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// NewErrorResult creates a HandlerResult for failed operations.
// Failure events which were recorded despite the error are part of it.
func NewErrorResult(retryMetrics RetryMetrics, events core.DomainEvents) HandlerResult {
	return HandlerResult{
		Events:           events,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// SuccessEvents returns the committed events without failure events.
func (r HandlerResult) SuccessEvents() core.DomainEvents {
	var events core.DomainEvents

	for _, event := range r.Events {
		if !event.IsErrorEvent() {
			events = append(events, event)
		}
	}

	return events
}

// Merge folds the result of one more operation set into r. Sweeps commit one set per book.
// The merged result is idempotent only if both parts were.
func (r HandlerResult) Merge(other HandlerResult) HandlerResult {
	merged := HandlerResult{
		Idempotent:       r.Idempotent && other.Idempotent,
		Events:           append(append(core.DomainEvents{}, r.Events...), other.Events...),
		RetryAttempts:    r.RetryAttempts + other.RetryAttempts,
		TotalRetryDelay:  r.TotalRetryDelay + other.TotalRetryDelay,
		LastErrorType:    other.LastErrorType,
		RetriesExhausted: r.RetriesExhausted || other.RetriesExhausted,
	}

	if merged.LastErrorType == "" {
		merged.LastErrorType = r.LastErrorType
	}

	return merged
}
