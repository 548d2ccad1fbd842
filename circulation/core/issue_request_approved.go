package core

import (
	"time"
)

// IssueRequestApprovedEventType is the event type identifier.
const IssueRequestApprovedEventType = "IssueRequestApproved"

// IssueRequestApproved represents a staff decision to hand out a copy once it is picked up.
type IssueRequestApproved struct {
	EventType  EventTypeString
	RequestID  RequestIDString
	BookID     BookIDString
	LibraryID  LibraryIDString
	MemberID   MemberIDString
	ApproverID StaffIDString
	OccurredAt OccurredAt
}

// BuildIssueRequestApproved creates a new IssueRequestApproved event.
func BuildIssueRequestApproved(
	requestID RequestIDString,
	bookID BookIDString,
	libraryID LibraryIDString,
	memberID MemberIDString,
	approverID StaffIDString,
	occurredAt time.Time,
) IssueRequestApproved {

	return IssueRequestApproved{
		EventType:  IssueRequestApprovedEventType,
		RequestID:  requestID,
		BookID:     bookID,
		LibraryID:  libraryID,
		MemberID:   memberID,
		ApproverID: approverID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e IssueRequestApproved) IsEventType() string {
	return IssueRequestApprovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e IssueRequestApproved) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e IssueRequestApproved) IsErrorEvent() bool {
	return false
}

// References returns the book, library and member.
func (e IssueRequestApproved) References() Refs {
	return Refs{BookID: e.BookID, LibraryID: e.LibraryID, MemberID: e.MemberID}
}
