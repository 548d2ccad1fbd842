package markoverdueloans

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Authorize refuses sweeps started by members.
func Authorize(command Command) error {
	if !command.Actor.IsStaff() {
		return fmt.Errorf("%w: only staff may mark loans overdue", core.ErrNotPermitted)
	}

	return nil
}

// Decide implements the business logic to mark the overdue loans of one book.
//
// Business Rules:
//
//	GIVEN: A book with active loans
//	WHEN: MarkOverdueLoans command is received
//	THEN: LoanMarkedOverdue event is generated for every loan past its due date, oldest due date first
//	ERROR: ErrNotPermitted if a member runs the sweep
//	IDEMPOTENCY: If every overdue loan was already marked, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, bookID core.BookIDString) core.DecisionResult {
	if err := Authorize(command); err != nil {
		return core.ErrorDecision(err)
	}

	book := core.ProjectBook(history, bookID)

	if command.LibraryID != "" && book.LibraryID != command.LibraryID {
		return core.IdempotentDecision()
	}

	var events core.DomainEvents
	for _, loan := range book.OverdueLoans(command.OccurredAt) {
		events = append(events, core.BuildLoanMarkedOverdue(
			loan.LoanID,
			loan.BookID,
			loan.LibraryID,
			loan.MemberID,
			loan.DueAt,
			command.OccurredAt,
		))
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
