package deactivatebook

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to deactivate a book.
//
// Business Rules:
//
//	GIVEN: A known book with BookID
//	WHEN: DeactivateBook command is received from staff
//	THEN: BookDeactivated event is generated
//	ERROR: ErrNotPermitted if the actor is not staff
//	ERROR: ErrNotFound if the book is unknown
//	ERROR: ErrInvalidTransition if loans, holds, queued reservations or open requests refer to the book
//	IDEMPOTENCY: If the book is already deactivated, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(fmt.Errorf("%w: only staff may deactivate books", core.ErrNotPermitted))
	}

	book := core.ProjectBook(history, command.BookID)

	if !book.Exists() {
		return core.ErrorDecision(fmt.Errorf("%w: book %s", core.ErrNotFound, command.BookID))
	}

	if book.Deactivated {
		return core.IdempotentDecision()
	}

	if book.HasOpenReferences() {
		err := fmt.Errorf("%w: book %s still has loans, reservations or open requests", core.ErrInvalidTransition, command.BookID)
		return core.RefusedDecision(err, commandType, command.BookID, "", command.OccurredAt)
	}

	return core.SuccessDecision(
		core.BuildBookDeactivated(command.BookID, book.LibraryID, command.Actor.ID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
