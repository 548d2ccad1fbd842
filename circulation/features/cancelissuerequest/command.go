package cancelissuerequest

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "CancelIssueRequest"
)

// Command represents the intent to withdraw an issue request.
type Command struct {
	Actor      core.Actor
	RequestID  core.RequestIDString
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, requestID core.RequestIDString, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		RequestID:  requestID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
