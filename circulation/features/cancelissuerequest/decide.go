package cancelissuerequest

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to cancel an issue request.
//
// Business Rules:
//
//	GIVEN: A Pending or Approved issue request with RequestID
//	WHEN: CancelIssueRequest command is received from the requesting member or staff
//	THEN: IssueRequestCancelled event is generated
//	THEN: ReservationActivated event follows if the request was Approved and a reservation is queued for the book
//	ERROR: ErrNotFound if the request is unknown
//	ERROR: ErrNotPermitted if a member cancels the request of somebody else
//	ERROR: ErrInvalidTransition if the request was already Rejected or Fulfilled
//	IDEMPOTENCY: If the request is already Cancelled, no event generated (no-op)
func Decide(
	history core.DomainEvents,
	command Command,
	bookID core.BookIDString,
	policy core.LibraryPolicy,
) core.DecisionResult {

	book := core.ProjectBook(history, bookID)

	request, ok := book.Request(command.RequestID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: issue request %s", core.ErrNotFound, command.RequestID))
	}

	if !command.Actor.MayActFor(request.MemberID) {
		return core.ErrorDecision(fmt.Errorf("%w: members may only cancel their own requests", core.ErrNotPermitted))
	}

	if request.Status == core.RequestCancelled {
		return core.IdempotentDecision()
	}

	if err := request.Status.CanTransitionTo(core.RequestCancelled); err != nil {
		return core.RefusedDecision(err, commandType, request.RequestID, request.MemberID, command.OccurredAt)
	}

	cancelled := core.BuildIssueRequestCancelled(
		request.RequestID,
		request.BookID,
		request.LibraryID,
		request.MemberID,
		command.Actor.ID,
		command.OccurredAt,
	)

	book.Apply(cancelled)

	if activated, ok := book.ReleaseCopy(command.OccurredAt, policy); ok {
		return core.SuccessDecision(cancelled, activated)
	}

	return core.SuccessDecision(cancelled)
}

// BuildEventFilter creates the filter for querying all events of the book the request is for.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
