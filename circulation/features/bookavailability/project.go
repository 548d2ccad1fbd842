package bookavailability

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

// ProjectBookAvailability implements the query logic of the availability of one book.
//
// Query Logic:
//
//	GIVEN: A book with BookID
//	WHEN: BookAvailability query is executed
//	THEN: BookAvailability is returned with copy counts, state, holds and the queue in FIFO order
//	ERROR: ErrNotFound if the book is unknown
func ProjectBookAvailability(history core.DomainEvents, query Query, sequenceNumber uint) (BookAvailability, error) {
	book := core.ProjectBook(history, query.BookID)
	if !book.Exists() {
		return BookAvailability{}, fmt.Errorf("%w: book %s", core.ErrNotFound, query.BookID)
	}

	var holds []Hold
	for _, r := range book.Reservations() {
		if r.Status == core.ReservationStatusReadyForPickup {
			holds = append(holds, Hold{
				ReservationID: r.ReservationID,
				MemberID:      r.MemberID,
				HoldExpiresAt: r.HoldExpiresAt,
			})
		}
	}

	slices.SortFunc(holds, func(x, y Hold) int {
		if c := x.HoldExpiresAt.Compare(y.HoldExpiresAt); c != 0 {
			return c
		}

		return strings.Compare(x.ReservationID, y.ReservationID)
	})

	queue := make([]QueuedReservation, 0, len(book.Queue()))
	for i, r := range book.Queue() {
		queue = append(queue, QueuedReservation{
			Position:      i + 1,
			ReservationID: r.ReservationID,
			MemberID:      r.MemberID,
			EnqueuedAt:    r.CreatedAt,
		})
	}

	return BookAvailability{
		Availability:   book.Availability(),
		Title:          book.Title,
		Author:         book.Author,
		ISBN:           book.ISBN,
		Holds:          holds,
		Queue:          queue,
		SequenceNumber: sequenceNumber,
	}, nil
}
