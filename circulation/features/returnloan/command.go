package returnloan

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "ReturnLoan"
)

// Command represents the intent of staff to take back the copy of a loan.
type Command struct {
	Actor      core.Actor
	LoanID     core.LoanIDString
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, loanID core.LoanIDString, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		LoanID:     loanID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
