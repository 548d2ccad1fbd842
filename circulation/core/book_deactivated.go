package core

import (
	"time"
)

// BookDeactivatedEventType is the event type identifier.
const BookDeactivatedEventType = "BookDeactivated"

// BookDeactivated represents the soft removal of a book from circulation.
// The history of the book stays, new requests and reservations are refused.
type BookDeactivated struct {
	EventType  EventTypeString
	BookID     BookIDString
	LibraryID  LibraryIDString
	StaffID    StaffIDString
	OccurredAt OccurredAt
}

// BuildBookDeactivated creates a new BookDeactivated event.
func BuildBookDeactivated(
	bookID BookIDString,
	libraryID LibraryIDString,
	staffID StaffIDString,
	occurredAt time.Time,
) BookDeactivated {

	return BookDeactivated{
		EventType:  BookDeactivatedEventType,
		BookID:     bookID,
		LibraryID:  libraryID,
		StaffID:    staffID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookDeactivated) IsEventType() string {
	return BookDeactivatedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookDeactivated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookDeactivated) IsErrorEvent() bool {
	return false
}

// References returns the book and library.
func (e BookDeactivated) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID}
}
