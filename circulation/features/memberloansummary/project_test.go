package memberloansummary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/memberloansummary"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
)

func memberHistory() core.DomainEvents {
	clock := FakeClock()

	return core.DomainEvents{
		FixtureRequestSubmitted("req-1", "book-1", "member-a", clock),
		FixtureRequestApproved("req-1", "book-1", "member-a", clock),
		FixtureLoanStarted("loan-1", "req-1", "book-1", "member-a", clock),
		FixtureLoanStarted("loan-0", "req-0", "book-0", "member-a", clock.AddDate(0, 0, -30)),
		core.BuildLoanReturned("loan-0", "book-0", LibraryID, "member-a", clock.AddDate(0, 0, -10), 6, 300, clock.AddDate(0, 0, -10)),
		FixtureRequestSubmitted("req-2", "book-2", "member-a", clock),
		FixtureReservationEnqueued("res-3", "book-3", "member-a", clock),
		FixtureReservationEnqueued("res-4", "book-4", "member-a", clock),
		FixtureReservationActivated("res-4", "book-4", "member-a", clock),
	}
}

func Test_ProjectMemberLoanSummary(t *testing.T) {
	// arrange
	asOf := FakeClock().AddDate(0, 0, 19)
	query := memberloansummary.BuildQuery(Member("member-a"), "member-a", asOf)
	policies := map[core.LibraryIDString]core.LibraryPolicy{LibraryID: core.DefaultPolicy(LibraryID)}

	// act
	summary, err := memberloansummary.ProjectMemberLoanSummary(memberHistory(), query, policies, 9)

	// assert
	require.NoError(t, err)
	require.Len(t, summary.Loans, 1)
	loan := summary.Loans[0]
	assert.Equal(t, "loan-1", loan.LoanID)
	assert.True(t, loan.Overdue)
	assert.Equal(t, 5, loan.DaysOverdue)
	assert.Equal(t, core.Money(250), loan.AccruedFine)
	assert.Equal(t, core.Money(250), summary.TotalAccruedFine)
	assert.Equal(t, core.Money(300), summary.FinesSettled)

	require.Len(t, summary.OpenRequests, 1)
	assert.Equal(t, "req-2", summary.OpenRequests[0].RequestID)
	assert.Equal(t, core.RequestPending, summary.OpenRequests[0].Status)

	require.Len(t, summary.Reservations, 2)
	assert.Equal(t, core.ReservationStatusActive, summary.Reservations[0].Status)
	assert.True(t, summary.Reservations[0].HoldExpiresAt.IsZero())
	assert.Equal(t, core.ReservationStatusReadyForPickup, summary.Reservations[1].Status)
	assert.Equal(t, uint(9), summary.GetSequenceNumber())
}

func Test_ProjectMemberLoanSummary_NoFineBeforeTheDueDate(t *testing.T) {
	// arrange
	query := memberloansummary.BuildQuery(Staff, "member-a", FakeClock().AddDate(0, 0, 14))
	policies := map[core.LibraryIDString]core.LibraryPolicy{LibraryID: core.DefaultPolicy(LibraryID)}

	// act
	summary, err := memberloansummary.ProjectMemberLoanSummary(memberHistory(), query, policies, 9)

	// assert
	require.NoError(t, err)
	assert.False(t, summary.Loans[0].Overdue)
	assert.Equal(t, core.Money(0), summary.TotalAccruedFine)
}

func Test_ProjectMemberLoanSummary_Error(t *testing.T) {
	testCases := []struct {
		name     string
		query    memberloansummary.Query
		expected error
	}{
		{
			name:     "member looks at somebody else",
			query:    memberloansummary.BuildQuery(Member("member-b"), "member-a", FakeClock()),
			expected: core.ErrNotPermitted,
		},
		{
			name:     "missing member id",
			query:    memberloansummary.BuildQuery(Staff, "", FakeClock()),
			expected: core.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := memberloansummary.ProjectMemberLoanSummary(memberHistory(), tc.query, nil, 0)

			// assert
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func Test_QueryHandler_Handle_UsesThePolicyOfTheLibrary(t *testing.T) {
	// arrange
	ctx := t.Context()
	expensive := core.DefaultPolicy(LibraryID)
	expensive.FinePerDay = 100
	circulation := GivenCirculation(t, expensive)
	circulation.Given(t, FixtureBookAdded("book-1", 1, FakeClock()))
	circulation.GivenLoan(t, "loan-1", "book-1", "member-a", FakeClock())
	handler := memberloansummary.NewQueryHandler(circulation.Coordinator)

	// act
	summary, err := handler.Handle(ctx, memberloansummary.BuildQuery(Member("member-a"), "member-a", FakeClock().AddDate(0, 0, 16)))

	// assert
	require.NoError(t, err)
	require.Len(t, summary.Loans, 1)
	assert.Equal(t, core.Money(200), summary.TotalAccruedFine)
	assert.Empty(t, summary.OpenRequests)
}
