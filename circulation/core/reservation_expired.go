package core

import (
	"time"
)

// ReservationExpiredEventType is the event type identifier.
const ReservationExpiredEventType = "ReservationExpired"

// ReservationExpired represents a hold that was not picked up in time.
type ReservationExpired struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	OccurredAt    OccurredAt
}

// BuildReservationExpired creates a new ReservationExpired event.
func BuildReservationExpired(
	reservationID ReservationIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	occurredAt time.Time,
) ReservationExpired {

	return ReservationExpired{
		EventType:     ReservationExpiredEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationExpired) IsEventType() string {
	return ReservationExpiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationExpired) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationExpired) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e ReservationExpired) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
