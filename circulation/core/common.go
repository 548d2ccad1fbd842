package core

import (
	"time"
)

// BookIDString represents a book identifier
type BookIDString = string

// LibraryIDString represents a library identifier
type LibraryIDString = string

// MemberIDString represents a member identifier
type MemberIDString = string

// StaffIDString represents a staff member identifier
type StaffIDString = string

// RequestIDString represents an issue request identifier
type RequestIDString = string

// LoanIDString represents a loan identifier
type LoanIDString = string

// ReservationIDString represents a reservation identifier
type ReservationIDString = string

// ISBNString represents an ISBN identifier
type ISBNString = string

// EventTypeString represents the type of domain event
type EventTypeString = string

// OccurredAt represents when an event occurred
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// Payload keys used as predicates in event filters.
const (
	PredicateBookID        = "BookID"
	PredicateLibraryID     = "LibraryID"
	PredicateMemberID      = "MemberID"
	PredicateRequestID     = "RequestID"
	PredicateLoanID        = "LoanID"
	PredicateReservationID = "ReservationID"
)

// Refs are the entity references an event carries.
// The coordinator uses them to know which books and members an operation touches.
type Refs struct {
	BookID    BookIDString
	LibraryID LibraryIDString
	MemberID  MemberIDString
}
