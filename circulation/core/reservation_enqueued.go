package core

import (
	"time"
)

// ReservationEnqueuedEventType is the event type identifier.
const ReservationEnqueuedEventType = "ReservationEnqueued"

// ReservationEnqueued represents a member joining the waiting list of a book.
// OccurredAt is the creation timestamp which orders the queue.
type ReservationEnqueued struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	OccurredAt    OccurredAt
}

// BuildReservationEnqueued creates a new ReservationEnqueued event.
func BuildReservationEnqueued(
	reservationID ReservationIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	occurredAt time.Time,
) ReservationEnqueued {

	return ReservationEnqueued{
		EventType:     ReservationEnqueuedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationEnqueued) IsEventType() string {
	return ReservationEnqueuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationEnqueued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationEnqueued) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e ReservationEnqueued) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
