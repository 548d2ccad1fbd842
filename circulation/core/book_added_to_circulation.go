package core

import (
	"time"
)

// BookAddedToCirculationEventType is the event type identifier.
const BookAddedToCirculationEventType = "BookAddedToCirculation"

// BookAddedToCirculation represents when a library puts copies of a book into circulation.
type BookAddedToCirculation struct {
	EventType  EventTypeString
	BookID     BookIDString
	LibraryID  LibraryIDString
	Title      string
	Author     string
	ISBN       ISBNString
	Quantity   int
	OccurredAt OccurredAt
}

// BuildBookAddedToCirculation creates a new BookAddedToCirculation event.
func BuildBookAddedToCirculation(
	bookID BookIDString,
	libraryID LibraryIDString,
	title string,
	author string,
	isbn ISBNString,
	quantity int,
	occurredAt time.Time,
) BookAddedToCirculation {

	return BookAddedToCirculation{
		EventType:  BookAddedToCirculationEventType,
		BookID:     bookID,
		LibraryID:  libraryID,
		Title:      title,
		Author:     author,
		ISBN:       isbn,
		Quantity:   quantity,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCirculation) IsEventType() string {
	return BookAddedToCirculationEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCirculation) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookAddedToCirculation) IsErrorEvent() bool {
	return false
}

// References returns the book and library.
func (e BookAddedToCirculation) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID}
}
