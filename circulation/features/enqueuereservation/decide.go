package enqueuereservation

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to enqueue a reservation.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a member with MemberID
//	WHEN: EnqueueReservation command is received
//	THEN: ReservationEnqueued event is generated
//	THEN: ReservationActivated event follows if a copy is free and nobody else waits
//	ERROR: ErrNotPermitted if a member enqueues somebody else
//	ERROR: ErrNotFound if the book is unknown
//	ERROR: ErrBookDeactivated if the book was deactivated
//	ERROR: ErrAlreadyQueued if the member has an open reservation for the book
//	ERROR: ErrDuplicateRequest if the member has an active loan of the book
//	ERROR: ErrInvalidInput if ReservationID is used by a reservation of another member or book
//	IDEMPOTENCY: If the reservation with ReservationID exists for the same member and book, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, policy core.LibraryPolicy) core.DecisionResult {
	if !command.Actor.MayActFor(command.MemberID) {
		return core.ErrorDecision(fmt.Errorf("%w: members may only reserve books for themselves", core.ErrNotPermitted))
	}

	if command.ReservationID == "" || command.BookID == "" || command.MemberID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: reservation id, book id and member id are required", core.ErrInvalidInput))
	}

	if enqueued, ok := core.EnqueuedReservation(history, command.ReservationID); ok {
		if enqueued.BookID == command.BookID && enqueued.MemberID == command.MemberID {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(fmt.Errorf("%w: reservation id %s is already used", core.ErrInvalidInput, command.ReservationID))
	}

	book := core.ProjectBook(history, command.BookID)

	refuse := func(err error) core.DecisionResult {
		return core.RefusedDecision(err, commandType, command.ReservationID, command.MemberID, command.OccurredAt)
	}

	if !book.Exists() {
		return refuse(fmt.Errorf("%w: book %s", core.ErrNotFound, command.BookID))
	}

	if book.Deactivated {
		return refuse(fmt.Errorf("%w: book %s", core.ErrBookDeactivated, command.BookID))
	}

	if _, ok := book.OpenReservationOf(command.MemberID); ok {
		return refuse(core.ErrAlreadyQueued)
	}

	if _, ok := book.ActiveLoanOf(command.MemberID); ok {
		return refuse(fmt.Errorf("%w: active loan exists", core.ErrDuplicateRequest))
	}

	enqueued := core.BuildReservationEnqueued(
		command.ReservationID,
		command.BookID,
		book.LibraryID,
		command.MemberID,
		command.OccurredAt,
	)

	book.Apply(enqueued)

	if activated, ok := book.ReleaseCopy(command.OccurredAt, policy); ok {
		return core.SuccessDecision(enqueued, activated)
	}

	return core.SuccessDecision(enqueued)
}

// BuildEventFilter creates the filter for querying all events of the book
// and the creation of a reservation with the same id.
func BuildEventFilter(bookID core.BookIDString, reservationID core.ReservationIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		OrMatching().
		AnyEventTypeOf(core.ReservationEnqueuedEventType).
		AndAnyPredicateOf(eventstore.P(core.PredicateReservationID, reservationID)).
		Finalize()
}
