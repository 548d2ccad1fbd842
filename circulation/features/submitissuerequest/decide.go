package submitissuerequest

import (
	"fmt"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// Decide implements the business logic to submit an issue request.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a member with MemberID
//	WHEN: SubmitIssueRequest command is received
//	THEN: IssueRequestSubmitted event is generated, the request is Pending
//	ERROR: ErrNotPermitted if a member submits for somebody else
//	ERROR: ErrNotFound if the book is unknown
//	ERROR: ErrBookDeactivated if the book was deactivated
//	ERROR: ErrDuplicateRequest if the member has an open request or an active loan for the book
//	ERROR: ErrMemberLimitExceeded if the member has reached the loan limit of the library
//	ERROR: ErrInvalidInput if RequestID is used by a request of another member or book
//	IDEMPOTENCY: If the request with RequestID exists for the same member and book, no event generated (no-op)
func Decide(history core.DomainEvents, command Command, policy core.LibraryPolicy) core.DecisionResult {
	if !command.Actor.MayActFor(command.MemberID) {
		return core.ErrorDecision(fmt.Errorf("%w: members may only request books for themselves", core.ErrNotPermitted))
	}

	if command.RequestID == "" || command.BookID == "" || command.MemberID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: request id, book id and member id are required", core.ErrInvalidInput))
	}

	if submitted, ok := core.SubmittedRequest(history, command.RequestID); ok {
		if submitted.BookID == command.BookID && submitted.MemberID == command.MemberID {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(fmt.Errorf("%w: request id %s is already used", core.ErrInvalidInput, command.RequestID))
	}

	book := core.ProjectBook(history, command.BookID)

	refuse := func(err error) core.DecisionResult {
		return core.RefusedDecision(err, commandType, command.RequestID, command.MemberID, command.OccurredAt)
	}

	if !book.Exists() {
		return refuse(fmt.Errorf("%w: book %s", core.ErrNotFound, command.BookID))
	}

	if book.Deactivated {
		return refuse(fmt.Errorf("%w: book %s", core.ErrBookDeactivated, command.BookID))
	}

	if _, ok := book.OpenRequestOf(command.MemberID); ok {
		return refuse(fmt.Errorf("%w: open request exists", core.ErrDuplicateRequest))
	}

	if _, ok := book.ActiveLoanOf(command.MemberID); ok {
		return refuse(fmt.Errorf("%w: active loan exists", core.ErrDuplicateRequest))
	}

	activeLoans := core.ProjectMemberLoans(history, command.MemberID).ActiveInLibrary(book.LibraryID)
	if activeLoans >= policy.MaxBooksPerMember {
		return refuse(fmt.Errorf("%w: %d of %d", core.ErrMemberLimitExceeded, activeLoans, policy.MaxBooksPerMember))
	}

	return core.SuccessDecision(
		core.BuildIssueRequestSubmitted(
			command.RequestID,
			command.BookID,
			book.LibraryID,
			command.MemberID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for querying all events of the book,
// the loan events of the member and the submission of a request with the same id.
func BuildEventFilter(
	bookID core.BookIDString,
	memberID core.MemberIDString,
	requestID core.RequestIDString,
) eventstore.Filter {

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
		AnyEventTypeOf(core.IssueRequestSubmittedEventType).
		AndAnyPredicateOf(eventstore.P(core.PredicateRequestID, requestID)).
		Finalize()
}
