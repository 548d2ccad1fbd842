package core

import (
	"time"
)

// LoanMarkedOverdueEventType is the event type identifier.
const LoanMarkedOverdueEventType = "LoanMarkedOverdue"

// LoanMarkedOverdue represents the first observation of a loan past its due date.
type LoanMarkedOverdue struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	DueAt      time.Time
	OccurredAt OccurredAt
}

// BuildLoanMarkedOverdue creates a new LoanMarkedOverdue event.
func BuildLoanMarkedOverdue(
	loanID LoanIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	dueAt time.Time,
	occurredAt time.Time,
) LoanMarkedOverdue {

	return LoanMarkedOverdue{
		EventType:  LoanMarkedOverdueEventType,
		LoanID:     loanID,
		BookID:     bookID,
		LibraryID:  libraryID,
		MemberID:   memberID,
		DueAt:      ToOccurredAt(dueAt),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanMarkedOverdue) IsEventType() string {
	return LoanMarkedOverdueEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanMarkedOverdue) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e LoanMarkedOverdue) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e LoanMarkedOverdue) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
