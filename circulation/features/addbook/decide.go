package addbook

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to add a book to circulation.
//
// Business Rules:
//
//	GIVEN: A book with BookID which is not known yet
//	WHEN: AddBook command is received from staff
//	THEN: BookAddedToCirculation event is generated
//	ERROR: ErrNotPermitted if the actor is not staff
//	ERROR: ErrInvalidInput if ids or title are empty, or the quantity is below 1
//	IDEMPOTENCY: If the book is already known, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(fmt.Errorf("%w: only staff may add books", core.ErrNotPermitted))
	}

	if err := validate(command); err != nil {
		return core.ErrorDecision(err)
	}

	if core.ProjectBook(history, command.BookID).Exists() {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCirculation(
			command.BookID,
			command.LibraryID,
			command.Title,
			command.Author,
			command.ISBN,
			command.Quantity,
			command.OccurredAt,
		),
	)
}

func validate(command Command) error {
	switch {
	case command.BookID == "", command.LibraryID == "":
		return fmt.Errorf("%w: book id and library id are required", core.ErrInvalidInput)
	case command.Title == "":
		return fmt.Errorf("%w: title is required", core.ErrInvalidInput)
	case command.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1, got %d", core.ErrInvalidInput, command.Quantity)
	}

	return nil
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
