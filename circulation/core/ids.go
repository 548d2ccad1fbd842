package core

// Request, loan and reservation ids are chosen by callers and must be unique across all books.
// Command handlers load the event which created an id together with their boundary,
// so two operations using the same id for different entities conflict on commit.

// SubmittedRequest returns the event which created the issue request, in any book.
func SubmittedRequest(history DomainEvents, requestID RequestIDString) (IssueRequestSubmitted, bool) {
	return first(history, func(e IssueRequestSubmitted) bool { return e.RequestID == requestID })
}

// StartedLoan returns the event which created the loan, in any book.
func StartedLoan(history DomainEvents, loanID LoanIDString) (LoanStarted, bool) {
	return first(history, func(e LoanStarted) bool { return e.LoanID == loanID })
}

// EnqueuedReservation returns the event which created the reservation, in any book.
func EnqueuedReservation(history DomainEvents, reservationID ReservationIDString) (ReservationEnqueued, bool) {
	return first(history, func(e ReservationEnqueued) bool { return e.ReservationID == reservationID })
}

func first[E DomainEvent](history DomainEvents, match func(E) bool) (E, bool) {
	for _, event := range history {
		if e, ok := event.(E); ok && match(e) {
			return e, true
		}
	}

	var zero E

	return zero, false
}
