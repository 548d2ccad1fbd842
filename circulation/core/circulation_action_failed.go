package core

import (
	"time"
)

// CirculationActionFailedEventType is the event type identifier.
const CirculationActionFailedEventType = "CirculationActionFailed"

// CirculationActionFailed represents a circulation operation refused by a business rule.
//
// It carries no BookID, so it is never part of a book's consistency boundary.
type CirculationActionFailed struct {
	EventType   EventTypeString
	Action      string
	EntityID    string
	MemberID    MemberIDString
	FailureInfo string
	OccurredAt  OccurredAt
}

// BuildCirculationActionFailed creates a new CirculationActionFailed event.
func BuildCirculationActionFailed(
	action string,
	entityID string,
	memberID MemberIDString,
	failureInfo string,
	occurredAt time.Time,
) CirculationActionFailed {

	return CirculationActionFailed{
		EventType:   CirculationActionFailedEventType,
		Action:      action,
		EntityID:    entityID,
		MemberID:    memberID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e CirculationActionFailed) IsEventType() string {
	return CirculationActionFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CirculationActionFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a refused operation.
func (e CirculationActionFailed) IsErrorEvent() bool {
	return true
}

// References returns only the member; failures are outside every book boundary.
func (e CirculationActionFailed) References() Refs {
	return Refs{MemberID: e.MemberID}
}

// RefusedDecision records a business refusal as CirculationActionFailed and returns err to the caller.
// Further events, e.g. the fallback enqueue of a failed approval, are appended in the same operation set.
func RefusedDecision(
	err error,
	action string,
	entityID string,
	memberID MemberIDString,
	occurredAt time.Time,
	events ...DomainEvent,
) DecisionResult {

	failed := BuildCirculationActionFailed(action, entityID, memberID, err.Error(), occurredAt)

	return ErrorDecision(err, append(DomainEvents{failed}, events...)...)
}
