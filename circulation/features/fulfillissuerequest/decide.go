package fulfillissuerequest

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to fulfill an issue request.
//
// Business Rules:
//
//	GIVEN: An Approved issue request with RequestID
//	WHEN: FulfillIssueRequest command is received from staff
//	THEN: LoanStarted event is generated, due at OccurredAt + loan duration
//	THEN: ReservationPickedUp event precedes it if the copy was held for the member
//	ERROR: ErrNotPermitted if the actor is not staff
//	ERROR: ErrNotFound if the request is unknown
//	ERROR: ErrInvalidTransition if the request is not Approved
//	ERROR: ErrMemberLimitExceeded if the member has reached the loan limit of the library
//	ERROR: ErrOutOfStock if neither an available copy nor a hold of the member exists
//	ERROR: ErrInvalidInput if LoanID is used by another loan
//	IDEMPOTENCY: If the request is already Fulfilled, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, bookID core.BookIDString, policy core.LibraryPolicy) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(fmt.Errorf("%w: only staff may fulfill issue requests", core.ErrNotPermitted))
	}

	if command.LoanID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: loan id is required", core.ErrInvalidInput))
	}

	book := core.ProjectBook(history, bookID)

	request, ok := book.Request(command.RequestID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: issue request %s", core.ErrNotFound, command.RequestID))
	}

	if request.Status == core.RequestFulfilled {
		return core.IdempotentDecision()
	}

	if _, ok := core.StartedLoan(history, command.LoanID); ok {
		return core.ErrorDecision(fmt.Errorf("%w: loan id %s is already used", core.ErrInvalidInput, command.LoanID))
	}

	refuse := func(err error) core.DecisionResult {
		return core.RefusedDecision(err, commandType, request.RequestID, request.MemberID, command.OccurredAt)
	}

	if err := request.Status.CanTransitionTo(core.RequestFulfilled); err != nil {
		return refuse(err)
	}

	activeLoans := core.ProjectMemberLoans(history, request.MemberID).ActiveInLibrary(request.LibraryID)
	if activeLoans >= policy.MaxBooksPerMember {
		return refuse(fmt.Errorf("%w: %d of %d", core.ErrMemberLimitExceeded, activeLoans, policy.MaxBooksPerMember))
	}

	claim, err := book.ClaimCopy(request.MemberID)
	if err != nil {
		return refuse(err)
	}

	loanStarted := core.BuildLoanStarted(
		command.LoanID,
		request.RequestID,
		request.BookID,
		request.LibraryID,
		request.MemberID,
		claim.ReservationID,
		command.OccurredAt,
		core.DueDate(command.OccurredAt, policy),
		command.OccurredAt,
	)

	if !claim.FromHold() {
		return core.SuccessDecision(loanStarted)
	}

	return core.SuccessDecision(
		core.BuildReservationPickedUp(
			claim.ReservationID,
			request.BookID,
			request.LibraryID,
			request.MemberID,
			command.LoanID,
			command.OccurredAt,
		),
		loanStarted,
	)
}

// BuildEventFilter creates the filter for querying all events of the book,
// the loan events of the member and the start of a loan with the same id.
func BuildEventFilter(bookID core.BookIDString, memberID core.MemberIDString, loanID core.LoanIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		OrMatching().
		AnyEventTypeOf(
			core.LoanStartedEventType,
			core.LoanReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P(core.PredicateMemberID, memberID)).
		OrMatching().
		AnyEventTypeOf(core.LoanStartedEventType).
		AndAnyPredicateOf(eventstore.P(core.PredicateLoanID, loanID)).
		Finalize()
}
