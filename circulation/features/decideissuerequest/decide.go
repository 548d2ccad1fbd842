package decideissuerequest

import (
	"errors"
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to approve or reject an issue request.
//
// Business Rules:
//
//	GIVEN: A Pending issue request with RequestID
//	WHEN: DecideIssueRequest command with Decision "approve" is received from staff
//	THEN: IssueRequestApproved event is generated if the member holds a copy or a copy is not promised to another approval
//	ERROR: ErrOutOfStock if no copy can be promised, the member is enqueued (unless already queued)
//	ERROR: ErrBookDeactivated if the book was deactivated
//
//	WHEN: DecideIssueRequest command with Decision "reject" is received from staff
//	THEN: IssueRequestRejected event is generated
//
//	ERROR: ErrNotPermitted if the actor is not staff
//	ERROR: ErrNotFound if the request is unknown
//	ERROR: ErrInvalidTransition if the request is not Pending, e.g. rejecting an Approved request
//	IDEMPOTENCY: Approving an Approved or rejecting a Rejected request generates no event (no-op)
func Decide(history core.DomainEvents, command Command, bookID core.BookIDString) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(fmt.Errorf("%w: only staff may decide on issue requests", core.ErrNotPermitted))
	}

	if command.Decision != Approve && command.Decision != Reject {
		return core.ErrorDecision(fmt.Errorf("%w: decision must be approve or reject, got %q", core.ErrInvalidInput, command.Decision))
	}

	book := core.ProjectBook(history, bookID)

	request, ok := book.Request(command.RequestID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: issue request %s", core.ErrNotFound, command.RequestID))
	}

	if command.Decision == Reject {
		return reject(command, request)
	}

	return approve(command, book, request)
}

func approve(command Command, book *core.BookInventory, request core.IssueRequest) core.DecisionResult {
	if request.Status == core.RequestApproved {
		return core.IdempotentDecision()
	}

	refuse := func(err error, events ...core.DomainEvent) core.DecisionResult {
		return core.RefusedDecision(err, commandType, request.RequestID, request.MemberID, command.OccurredAt, events...)
	}

	if err := request.Status.CanTransitionTo(core.RequestApproved); err != nil {
		return refuse(err)
	}

	if book.Deactivated {
		return refuse(fmt.Errorf("%w: book %s", core.ErrBookDeactivated, book.BookID))
	}

	_, err := book.PromiseCopy(request.MemberID)
	if errors.Is(err, core.ErrOutOfStock) {
		if _, queued := book.OpenReservationOf(request.MemberID); queued {
			return refuse(err)
		}

		return refuse(err, core.BuildReservationEnqueued(
			command.FallbackReservationID,
			book.BookID,
			book.LibraryID,
			request.MemberID,
			command.OccurredAt,
		))
	}

	return core.SuccessDecision(
		core.BuildIssueRequestApproved(
			request.RequestID,
			request.BookID,
			request.LibraryID,
			request.MemberID,
			command.Actor.ID,
			command.OccurredAt,
		),
	)
}

func reject(command Command, request core.IssueRequest) core.DecisionResult {
	if request.Status == core.RequestRejected {
		return core.IdempotentDecision()
	}

	if err := request.Status.CanTransitionTo(core.RequestRejected); err != nil {
		return core.RefusedDecision(err, commandType, request.RequestID, request.MemberID, command.OccurredAt)
	}

	return core.SuccessDecision(
		core.BuildIssueRequestRejected(
			request.RequestID,
			request.BookID,
			request.LibraryID,
			request.MemberID,
			command.Actor.ID,
			command.Reason,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying all events of the book the request is for.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
