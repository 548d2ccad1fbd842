package core

import (
	"time"
)

// ReservationPickedUpEventType is the event type identifier.
const ReservationPickedUpEventType = "ReservationPickedUp"

// ReservationPickedUp represents a held copy being handed out as a loan.
type ReservationPickedUp struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	LoanID        LoanIDString
	OccurredAt    OccurredAt
}

// BuildReservationPickedUp creates a new ReservationPickedUp event.
func BuildReservationPickedUp(
	reservationID ReservationIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	loanID LoanIDString,
	occurredAt time.Time,
) ReservationPickedUp {

	return ReservationPickedUp{
		EventType:     ReservationPickedUpEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		LoanID:        loanID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationPickedUp) IsEventType() string {
	return ReservationPickedUpEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationPickedUp) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationPickedUp) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e ReservationPickedUp) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
