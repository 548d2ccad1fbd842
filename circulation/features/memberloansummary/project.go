package memberloansummary

import (
	"fmt"
	"slices"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

// Validate refuses queries without a member and members looking at somebody else.
func Validate(query Query) error {
	if query.MemberID == "" {
		return fmt.Errorf("%w: member id is required", core.ErrInvalidInput)
	}

	if !query.Actor.MayActFor(query.MemberID) {
		return fmt.Errorf("%w: members may only look at their own loans", core.ErrNotPermitted)
	}

	return nil
}

// ProjectMemberLoanSummary implements the query logic of the loan summary of one member.
//
// Query Logic:
//
//	GIVEN: The events of a member with MemberID and the policies of the libraries involved
//	WHEN: MemberLoanSummary query is executed
//	THEN: MemberLoanSummary is returned with the fines accrued until AsOf
//	INCLUDES: Active loans, Pending and Approved requests, Active and ReadyForPickup reservations
//	EXCLUDES: Returned loans (their settled fines are summed up), closed requests and reservations
//	ERROR: ErrNotPermitted if a member looks at somebody else
func ProjectMemberLoanSummary(
	history core.DomainEvents,
	query Query,
	policies map[core.LibraryIDString]core.LibraryPolicy,
	sequenceNumber uint,
) (MemberLoanSummary, error) {

	if err := Validate(query); err != nil {
		return MemberLoanSummary{}, err
	}

	summary := MemberLoanSummary{
		MemberID:       query.MemberID,
		Loans:          []LoanSummary{},
		OpenRequests:   []RequestSummary{},
		Reservations:   []ReservationSummary{},
		SequenceNumber: sequenceNumber,
	}

	for _, loan := range core.ProjectMemberLoans(history, query.MemberID).Active() {
		fine := core.FineAmount(loan.DueAt, query.AsOf, policies[loan.LibraryID].FinePerDay)

		summary.Loans = append(summary.Loans, LoanSummary{
			LoanID:      loan.LoanID,
			BookID:      loan.BookID,
			LibraryID:   loan.LibraryID,
			IssuedAt:    loan.IssuedAt,
			DueAt:       loan.DueAt,
			Overdue:     core.IsOverdue(loan.DueAt, query.AsOf),
			DaysOverdue: core.DaysOverdue(loan.DueAt, query.AsOf),
			AccruedFine: fine,
		})
		summary.TotalAccruedFine += fine
	}

	for _, event := range history {
		if returned, ok := event.(core.LoanReturned); ok && returned.MemberID == query.MemberID {
			summary.FinesSettled += returned.FineCents
		}
	}

	for _, bookID := range BookIDs(history) {
		book := core.ProjectBook(history, bookID)

		for _, r := range book.Requests() {
			if r.MemberID == query.MemberID && r.Status.IsOpen() {
				summary.OpenRequests = append(summary.OpenRequests, RequestSummary{
					RequestID:   r.RequestID,
					BookID:      r.BookID,
					Status:      r.Status,
					SubmittedAt: r.SubmittedAt,
				})
			}
		}

		if r, ok := book.OpenReservationOf(query.MemberID); ok {
			summary.Reservations = append(summary.Reservations, ReservationSummary{
				ReservationID: r.ReservationID,
				BookID:        r.BookID,
				Status:        r.Status,
				EnqueuedAt:    r.CreatedAt,
				HoldExpiresAt: r.HoldExpiresAt,
			})
		}
	}

	return summary, nil
}

// BookIDs returns the books referenced by the history in order of first appearance.
func BookIDs(history core.DomainEvents) []core.BookIDString {
	var bookIDs []core.BookIDString

	for _, event := range history {
		if bookID := event.References().BookID; bookID != "" && !slices.Contains(bookIDs, bookID) {
			bookIDs = append(bookIDs, bookID)
		}
	}

	return bookIDs
}

// LibraryIDs returns the libraries of the active loans in the history.
func LibraryIDs(history core.DomainEvents, memberID core.MemberIDString) []core.LibraryIDString {
	var libraryIDs []core.LibraryIDString

	for _, loan := range core.ProjectMemberLoans(history, memberID).Active() {
		if !slices.Contains(libraryIDs, loan.LibraryID) {
			libraryIDs = append(libraryIDs, loan.LibraryID)
		}
	}

	return libraryIDs
}
