package core

import (
	"time"
)

// LoanReturnedEventType is the event type identifier.
const LoanReturnedEventType = "LoanReturned"

// LoanReturned represents a copy coming back. The fine is settled at the moment of return.
type LoanReturned struct {
	EventType   EventTypeString
	LoanID      LoanIDString
	BookID      BookIDString
	LibraryID   LibraryIDString
	MemberID    MemberIDString
	ReturnedAt  time.Time
	DaysOverdue int
	FineCents   Money
	OccurredAt  OccurredAt
}

// BuildLoanReturned creates a new LoanReturned event.
func BuildLoanReturned(
	loanID LoanIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	returnedAt time.Time,
	daysOverdue int,
	fineCents Money,
	occurredAt time.Time,
) LoanReturned {

	return LoanReturned{
		EventType:   LoanReturnedEventType,
		LoanID:      loanID,
		BookID:      bookID,
		LibraryID:   libraryID,
		MemberID:    memberID,
		ReturnedAt:  ToOccurredAt(returnedAt),
		DaysOverdue: daysOverdue,
		FineCents:   fineCents,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanReturned) IsEventType() string {
	return LoanReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LoanReturned) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e LoanReturned) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
