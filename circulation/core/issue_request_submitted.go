package core

import (
	"time"
)

// IssueRequestSubmittedEventType is the event type identifier.
const IssueRequestSubmittedEventType = "IssueRequestSubmitted"

// IssueRequestSubmitted represents a member asking for a copy of a book.
type IssueRequestSubmitted struct {
	EventType  EventTypeString
	RequestID  RequestIDString
	BookID     BookIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	OccurredAt OccurredAt
}

// BuildIssueRequestSubmitted creates a new IssueRequestSubmitted event.
func BuildIssueRequestSubmitted(
	requestID RequestIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	occurredAt time.Time,
) IssueRequestSubmitted {

	return IssueRequestSubmitted{
		EventType:  IssueRequestSubmittedEventType,
		RequestID:  requestID,
		BookID:     bookID,
		LibraryID:  libraryID,
		MemberID:   memberID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e IssueRequestSubmitted) IsEventType() string {
	return IssueRequestSubmittedEventType
}

// HasOccurredAt returns when this event occurred.
func (e IssueRequestSubmitted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e IssueRequestSubmitted) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e IssueRequestSubmitted) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
