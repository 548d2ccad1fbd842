package cancelreservation

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to cancel a reservation.
//
// Business Rules:
//
//	GIVEN: An Active or ReadyForPickup reservation with ReservationID
//	WHEN: CancelReservation command is received from the reserving member or staff
//	THEN: ReservationCancelled event is generated
//	THEN: ReservationActivated event follows for the next member if a held copy was given up
//	ERROR: ErrNotFound if the reservation is unknown
//	ERROR: ErrNotPermitted if a member cancels the reservation of somebody else
//	ERROR: ErrInvalidTransition if the reservation was already Fulfilled or Expired
//	IDEMPOTENCY: If the reservation is already Cancelled, no event generated (no-op)
func Decide(
	history core.DomainEvents,
	command Command,
	bookID core.BookIDString,
	policy core.LibraryPolicy,
) core.DecisionResult {

	book := core.ProjectBook(history, bookID)

	reservation, ok := book.Reservation(command.ReservationID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: reservation %s", core.ErrNotFound, command.ReservationID))
	}

	if !command.Actor.MayActFor(reservation.MemberID) {
		return core.ErrorDecision(fmt.Errorf("%w: members may only cancel their own reservations", core.ErrNotPermitted))
	}

	if reservation.Status == core.ReservationStatusCancelled {
		return core.IdempotentDecision()
	}

	if err := reservation.Status.CanTransitionTo(core.ReservationStatusCancelled); err != nil {
		return core.RefusedDecision(err, commandType, reservation.ReservationID, reservation.MemberID, command.OccurredAt)
	}

	cancelled := core.BuildReservationCancelled(
		reservation.ReservationID,
		reservation.BookID,
		reservation.LibraryID,
		reservation.MemberID,
		command.Actor.ID,
		command.OccurredAt,
	)

	if reservation.Status != core.ReservationStatusReadyForPickup {
		return core.SuccessDecision(cancelled)
	}

	book.Apply(cancelled)

	if activated, ok := book.ReleaseCopy(command.OccurredAt, policy); ok {
		return core.SuccessDecision(cancelled, activated)
	}

	return core.SuccessDecision(cancelled)
}

// BuildEventFilter creates the filter for querying all events of the book the reservation is for.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
