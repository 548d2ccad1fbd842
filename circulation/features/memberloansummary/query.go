package memberloansummary

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	queryType = "MemberLoanSummary"
)

// LoanSummary is one active loan of the member.
type LoanSummary struct {
	LoanID      core.LoanIDString
	BookID      core.BookIDString
	LibraryID   core.LibraryIDString
	IssuedAt    time.Time
	DueAt       time.Time
	Overdue     bool
	DaysOverdue int
	AccruedFine core.Money
}

// RequestSummary is one open issue request of the member.
type RequestSummary struct {
	RequestID   core.RequestIDString
	BookID      core.BookIDString
	Status      core.RequestStatus
	SubmittedAt time.Time
}

// ReservationSummary is one open reservation of the member. HoldExpiresAt is zero while the member waits.
type ReservationSummary struct {
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	Status        core.ReservationStatus
	EnqueuedAt    time.Time
	HoldExpiresAt time.Time
}

// MemberLoanSummary represents the query result.
type MemberLoanSummary struct {
	MemberID         core.MemberIDString
	Loans            []LoanSummary
	OpenRequests     []RequestSummary
	Reservations     []ReservationSummary
	TotalAccruedFine core.Money
	FinesSettled     core.Money
	SequenceNumber   uint
}

// GetSequenceNumber returns the highest event sequence number included in the projection.
func (r MemberLoanSummary) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// Query represents the intent to look at the loans of a member as of a point in time.
type Query struct {
	Actor    core.Actor
	MemberID core.MemberIDString
	AsOf     time.Time
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(actor core.Actor, memberID core.MemberIDString, asOf time.Time) Query {
	return Query{
		Actor:    actor,
		MemberID: memberID,
		AsOf:     core.ToOccurredAt(asOf),
	}
}
