package bookavailability

import (
	"context"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// QueryHandler orchestrates the query processing workflow: Load -> Project.
// External wrappers handle all observability concerns.
type QueryHandler struct {
	coordinator *shell.Coordinator
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(coordinator *shell.Coordinator) QueryHandler {
	return QueryHandler{
		coordinator: coordinator,
	}
}

// Handle loads the events of the book and projects its availability.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookAvailability, error) {
	history, err := h.coordinator.Load(ctx, BuildEventFilter(query.BookID))
	if err != nil {
		return BookAvailability{}, err
	}

	return ProjectBookAvailability(history.Events, query, history.Version)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateBookID, bookID)).
		Finalize()
}
