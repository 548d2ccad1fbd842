package core

import (
	"time"
)

// ReservationActivatedEventType is the event type identifier.
const ReservationActivatedEventType = "ReservationActivated"

// ReservationActivated represents a copy being held for the head of the queue until HoldExpiresAt.
type ReservationActivated struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	LibraryID     LibraryIDString
	MemberID      MemberIDString
	HoldExpiresAt time.Time
	OccurredAt    OccurredAt
}

// BuildReservationActivated creates a new ReservationActivated event.
func BuildReservationActivated(
	reservationID ReservationIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	holdExpiresAt time.Time,
	occurredAt time.Time,
) ReservationActivated {

	return ReservationActivated{
		EventType:     ReservationActivatedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		LibraryID:     libraryID,
		MemberID:      memberID,
		HoldExpiresAt: ToOccurredAt(holdExpiresAt),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationActivated) IsEventType() string {
	return ReservationActivatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationActivated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e ReservationActivated) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e ReservationActivated) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
