package addbook

import (
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book with its copies to the circulation of a library.
type Command struct {
	Actor      core.Actor
	BookID     core.BookIDString
	LibraryID  core.LibraryIDString
	Title      string
	Author     string
	ISBN       core.ISBNString
	Quantity   int
	OccurredAt core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	bookID core.BookIDString,
	libraryID core.LibraryIDString,
	title string,
	author string,
	isbn core.ISBNString,
	quantity int,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		BookID:     bookID,
		LibraryID:  libraryID,
		Title:      title,
		Author:     author,
		ISBN:       isbn,
		Quantity:   quantity,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
