package cancelreservation

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the intent to withdraw a reservation.
type Command struct {
	Actor         core.Actor
	ReservationID core.ReservationIDString
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, reservationID core.ReservationIDString, occurredAt time.Time) Command {
	return Command{
		Actor:         actor,
		ReservationID: reservationID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
