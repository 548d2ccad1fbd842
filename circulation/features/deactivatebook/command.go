package deactivatebook

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "DeactivateBook"
)

// Command represents the intent to take a book out of circulation.
type Command struct {
	Actor      core.Actor
	BookID     core.BookIDString
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(actor core.Actor, bookID core.BookIDString, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		BookID:     bookID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
