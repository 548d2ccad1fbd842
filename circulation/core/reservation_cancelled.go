package core

import (
	"time"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled represents a member leaving the queue or giving up a held copy.
type ReservationCancelled struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	CancelledBy   string
	OccurredAt    OccurredAt
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(
	reservationID ReservationIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	cancelledBy string,
	occurredAt time.Time,
) ReservationCancelled {

	return ReservationCancelled{
		EventType:     ReservationCancelledEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		CancelledBy:   cancelledBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationCancelled) IsEventType() string {
	return ReservationCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationCancelled) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e ReservationCancelled) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
