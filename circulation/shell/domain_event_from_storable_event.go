package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) { //nolint:cyclop // one case per event type
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BookAddedToCirculationEventType:
		return unmarshal[core.BookAddedToCirculation](payload)
	case core.BookDeactivatedEventType:
		return unmarshal[core.BookDeactivated](payload)
	case core.IssueRequestSubmittedEventType:
		return unmarshal[core.IssueRequestSubmitted](payload)
	case core.IssueRequestApprovedEventType:
		return unmarshal[core.IssueRequestApproved](payload)
	case core.IssueRequestRejectedEventType:
		return unmarshal[core.IssueRequestRejected](payload)
	case core.IssueRequestCancelledEventType:
		return unmarshal[core.IssueRequestCancelled](payload)
	case core.LoanStartedEventType:
		return unmarshal[core.LoanStarted](payload)
	case core.LoanReturnedEventType:
		return unmarshal[core.LoanReturned](payload)
	case core.LoanMarkedOverdueEventType:
		return unmarshal[core.LoanMarkedOverdue](payload)
	case core.ReservationEnqueuedEventType:
		return unmarshal[core.ReservationEnqueued](payload)
	case core.ReservationActivatedEventType:
		return unmarshal[core.ReservationActivated](payload)
	case core.ReservationPickedUpEventType:
		return unmarshal[core.ReservationPickedUp](payload)
	case core.ReservationExpiredEventType:
		return unmarshal[core.ReservationExpired](payload)
	case core.ReservationCancelledEventType:
		return unmarshal[core.ReservationCancelled](payload)
	case core.CirculationActionFailedEventType:
		return unmarshal[core.CirculationActionFailed](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
