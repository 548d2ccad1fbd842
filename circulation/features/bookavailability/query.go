package bookavailability

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	queryType = "BookAvailability"
)

// QueuedReservation is one entry of the waiting line.
type QueuedReservation struct {
	Position      int
	ReservationID core.ReservationIDString
	MemberID      core.MemberIDString
	EnqueuedAt    time.Time
}

// Hold is a copy held for a member until HoldExpiresAt.
type Hold struct {
	ReservationID core.ReservationIDString
	MemberID      core.MemberIDString
	HoldExpiresAt time.Time
}

// BookAvailability represents the query result.
type BookAvailability struct {
	core.Availability
	Title          string
	Author         string
	ISBN           core.ISBNString
	Holds          []Hold
	Queue          []QueuedReservation
	SequenceNumber uint
}

// GetSequenceNumber returns the highest event sequence number included in the projection.
func (r BookAvailability) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// Query represents the intent to look at the availability of a book.
type Query struct {
	BookID core.BookIDString
}

// QueryType returns the type identifier for this query, used for observability and routing.
func (q Query) QueryType() string {
	return queryType
}

// BuildQuery creates a new Query with the provided book ID.
func BuildQuery(bookID core.BookIDString) Query {
	return Query{
		BookID: bookID,
	}
}
