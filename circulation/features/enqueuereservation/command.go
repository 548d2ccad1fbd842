package enqueuereservation

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "EnqueueReservation"
)

// Command represents the intent of a member to wait for a copy of a book.
// ReservationID is chosen by the caller; time-ordered ids (UUIDv7) keep the tie-break stable.
type Command struct {
	Actor         core.Actor
	ReservationID core.ReservationIDString
	BookID        core.BookIDString
	MemberID      core.MemberIDString
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	reservationID core.ReservationIDString,
	bookID core.BookIDString,
	memberID core.MemberIDString,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		ReservationID: reservationID,
		BookID:        bookID,
		MemberID:      memberID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
