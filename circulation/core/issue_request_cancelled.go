package core

import (
	"time"
)

// IssueRequestCancelledEventType is the event type identifier.
const IssueRequestCancelledEventType = "IssueRequestCancelled"

// IssueRequestCancelled represents the withdrawal of an open issue request.
type IssueRequestCancelled struct {
	EventType   EventTypeString
	RequestID   RequestIDString
	BookID      BookIDString
	LibraryID   LibraryIDString
	MemberID    MemberIDString
	CancelledBy string
	OccurredAt  OccurredAt
}

// BuildIssueRequestCancelled creates a new IssueRequestCancelled event.
func BuildIssueRequestCancelled(
	requestID RequestIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	cancelledBy string,
	occurredAt time.Time,
) IssueRequestCancelled {

	return IssueRequestCancelled{
		EventType:   IssueRequestCancelledEventType,
		RequestID:   requestID,
		BookID:      bookID,
		LibraryID:   libraryID,
		MemberID:    memberID,
		CancelledBy: cancelledBy,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e IssueRequestCancelled) IsEventType() string {
	return IssueRequestCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e IssueRequestCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e IssueRequestCancelled) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e IssueRequestCancelled) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
