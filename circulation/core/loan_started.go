package core

import (
	"time"
)

// LoanStartedEventType is the event type identifier.
const LoanStartedEventType = "LoanStarted"

// LoanStarted represents the fulfillment of an approved issue request: a copy left the library.
// ReservationID is set when the copy was held for the member.
type LoanStarted struct {
	EventType     EventTypeString
	LoanID        LoanIDString
	RequestID     RequestIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	ReservationID ReservationIDString
	IssuedAt      time.Time
	DueAt         time.Time
	OccurredAt    OccurredAt
}

// BuildLoanStarted creates a new LoanStarted event.
func BuildLoanStarted(
	loanID LoanIDString,
	requestID RequestIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	reservationID ReservationIDString,
	issuedAt time.Time,
	dueAt time.Time,
	occurredAt time.Time,
) LoanStarted {

	return LoanStarted{
		EventType:     LoanStartedEventType,
		LoanID:        loanID,
		RequestID:     requestID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		ReservationID: reservationID,
		IssuedAt:      ToOccurredAt(issuedAt),
		DueAt:         ToOccurredAt(dueAt),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanStarted) IsEventType() string {
	return LoanStartedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanStarted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LoanStarted) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e LoanStarted) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
