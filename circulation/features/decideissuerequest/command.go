package decideissuerequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "DecideIssueRequest"
)

// Decision is the verdict of staff on an issue request.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

// Command represents the intent of staff to approve or reject an issue request.
//
// FallbackReservationID is the id of the reservation created when an approval fails with ErrOutOfStock.
// It is fixed when the command is built, so retries of the same command enqueue at most once.
type Command struct {
	Actor                 core.Actor
	RequestID             core.RequestIDString
	Decision              Decision
	Reason                string
	FallbackReservationID core.ReservationIDString
	OccurredAt            core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	requestID core.RequestIDString,
	decision Decision,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:                 actor,
		RequestID:             requestID,
		Decision:              decision,
		Reason:                reason,
		FallbackReservationID: uuid.Must(uuid.NewV7()).String(),
		OccurredAt:            core.ToOccurredAt(occurredAt),
	}
}
