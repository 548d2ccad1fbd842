package submitissuerequest

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "SubmitIssueRequest"
)

// Command represents the intent of a member to borrow a book.
// RequestID is chosen by the caller; submitting the same RequestID again is a no-op.
type Command struct {
	Actor      core.Actor
	RequestID  core.RequestIDString
	BookID     core.BookIDString
	MemberID   core.MemberIDString
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
	bookID core.BookIDString,
	memberID core.MemberIDString,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		RequestID:  requestID,
		BookID:     bookID,
		MemberID:   memberID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
