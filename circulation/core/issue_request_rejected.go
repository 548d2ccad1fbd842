package core

import (
	"time"
)

// IssueRequestRejectedEventType is the event type identifier.
const IssueRequestRejectedEventType = "IssueRequestRejected"

// IssueRequestRejected represents a staff decision to refuse a pending issue request.
type IssueRequestRejected struct {
	EventType  EventTypeString
	RequestID  RequestIDString
	BookID     BookIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	ApproverID StaffIDString
	Reason     string
	OccurredAt OccurredAt
}

// BuildIssueRequestRejected creates a new IssueRequestRejected event.
func BuildIssueRequestRejected(
	requestID RequestIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	approverID StaffIDString,
	reason string,
	occurredAt time.Time,
) IssueRequestRejected {

	return IssueRequestRejected{
		EventType:  IssueRequestRejectedEventType,
		RequestID:  requestID,
		BookID:     bookID,
		LibraryID:  libraryID,
		MemberID:   memberID,
		ApproverID: approverID,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e IssueRequestRejected) IsEventType() string {
	return IssueRequestRejectedEventType
}

// HasOccurredAt returns when this event occurred.
func (e IssueRequestRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e IssueRequestRejected) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e IssueRequestRejected) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
