package expirestalereservations

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Authorize refuses sweeps started by members.
func Authorize(command Command) error {
	if !command.Actor.IsStaff() {
		return fmt.Errorf("%w: only staff may expire reservations", core.ErrNotPermitted)
	}

	return nil
}

// Decide implements the business logic to expire the stale holds of one book.
//
// Business Rules:
//
//	GIVEN: A book with ReadyForPickup reservations
//	WHEN: ExpireStaleReservations command is received
//	THEN: ReservationExpired event is generated for every hold past its expiry
//	THEN: ReservationActivated event follows for the next member in the queue for every freed copy
//	ERROR: ErrNotPermitted if a member runs the sweep
//	IDEMPOTENCY: If no hold is past its expiry, no event generated (no-op)
func Decide(
	history core.DomainEvents,
	command Command,
	bookID core.BookIDString,
	policy core.LibraryPolicy,
) core.DecisionResult {

	if err := Authorize(command); err != nil {
		return core.ErrorDecision(err)
	}

	book := core.ProjectBook(history, bookID)

	if command.LibraryID != "" && book.LibraryID != command.LibraryID {
		return core.IdempotentDecision()
	}

	now := command.OccurredAt

	var events core.DomainEvents
	for _, hold := range book.ExpiredHolds(now) {
		expired := core.BuildReservationExpired(
			hold.ReservationID,
			hold.BookID,
			hold.LibraryID,
			hold.MemberID,
			now,
		)
		book.Apply(expired)
		events = append(events, expired)

		if activated, ok := book.ReleaseCopy(now, policy); ok {
			book.Apply(activated)
			events = append(events, activated)
		}
	}

	if len(events) == 0 {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(events[0], events[1:]...)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
