package memberloansummary

import (
	"context"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

// QueryHandler orchestrates the query processing workflow: Load -> Policies -> Project.
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

// Handle loads the events of the member, looks up the policies of the libraries with active loans and projects the summary.
func (h QueryHandler) Handle(ctx context.Context, query Query) (MemberLoanSummary, error) {
	if err := Validate(query); err != nil {
		return MemberLoanSummary{}, err
	}

	history, err := h.coordinator.Load(ctx, BuildEventFilter(query.MemberID))
	if err != nil {
		return MemberLoanSummary{}, err
	}

	policies := make(map[core.LibraryIDString]core.LibraryPolicy)
	for _, libraryID := range LibraryIDs(history.Events, query.MemberID) {
		if policies[libraryID], err = h.coordinator.Policy(ctx, libraryID); err != nil {
			return MemberLoanSummary{}, err
		}
	}

	return ProjectMemberLoanSummary(history.Events, query, policies, history.Version)
}

// BuildEventFilter creates the filter for querying all events which reference the member.
func BuildEventFilter(memberID core.MemberIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P(core.PredicateMemberID, memberID)).
		Finalize()
}
