package returnloan

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to return a loan.
//
// Business Rules:
//
//	GIVEN: An active loan with LoanID
//	WHEN: ReturnLoan command is received from staff
//	THEN: LoanReturned event is generated with the days overdue and the settled fine
//	THEN: ReservationActivated event follows if a reservation is queued for the book
//	ERROR: ErrNotPermitted if the actor is not staff
//	ERROR: ErrNotFound if the loan is unknown
//	IDEMPOTENCY: If the loan was already returned, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, bookID core.BookIDString, policy core.LibraryPolicy) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(fmt.Errorf("%w: only staff may take back loans", core.ErrNotPermitted))
	}

	book := core.ProjectBook(history, bookID)

	loan, ok := book.Loan(command.LoanID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: loan %s", core.ErrNotFound, command.LoanID))
	}

	if loan.Returned {
		return core.IdempotentDecision()
	}

	now := command.OccurredAt

	returned := core.BuildLoanReturned(
		loan.LoanID,
		loan.BookID,
		loan.LibraryID,
		loan.MemberID,
		now,
		core.DaysOverdue(loan.DueAt, now),
		core.FineAmount(loan.DueAt, now, policy.FinePerDay),
		now,
	)

	book.Apply(returned)

	if activated, ok := book.ReleaseCopy(now, policy); ok {
		return core.SuccessDecision(returned, activated)
	}

	return core.SuccessDecision(returned)
}

// BuildEventFilter creates the filter for querying all events of the book of the loan.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
