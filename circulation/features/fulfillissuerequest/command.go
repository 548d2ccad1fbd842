package fulfillissuerequest

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "FulfillIssueRequest"
)

// Command represents the intent of staff to hand over a copy for an approved issue request.
type Command struct {
	Actor      core.Actor
	RequestID  core.RequestIDString
	LoanID     core.LoanIDString
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	requestID core.RequestIDString,
	loanID core.LoanIDString,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		RequestID:  requestID,
		LoanID:     loanID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
