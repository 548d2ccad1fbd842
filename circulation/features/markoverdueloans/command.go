package markoverdueloans

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "MarkOverdueLoans"
)

// Command represents a run of the overdue sweep. An empty LibraryID sweeps all libraries.
type Command struct {
	Actor      core.Actor
	LibraryID  core.LibraryIDString
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, libraryID core.LibraryIDString, now time.Time) Command {
	return Command{
		Actor:      actor,
		LibraryID:  libraryID,
		OccurredAt: core.ToOccurredAt(now),
	}
}
