package cancelissuerequest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/cancelissuerequest"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
)

func Test_Decide(t *testing.T) {
	clock := FakeClock()
	submitted := FixtureRequestSubmitted("req-1", "book-1", "member-a", clock)
	approved := FixtureRequestApproved("req-1", "book-1", "member-a", clock)

	testCases := []struct {
		name             string
		events           core.DomainEvents
		actor            core.Actor
		expectIdempotent bool
		expectedErr      error
	}{
		{name: "member cancels pending", events: core.DomainEvents{submitted}, actor: Member("member-a")},
		{name: "staff cancels approved", events: core.DomainEvents{submitted, approved}, actor: Staff},
		{
			name:             "already cancelled",
			events:           core.DomainEvents{submitted, core.BuildIssueRequestCancelled("req-1", "book-1", LibraryID, "member-a", "member-a", clock)},
			actor:            Member("member-a"),
			expectIdempotent: true,
		},
		{
			name:        "fulfilled",
			events:      core.DomainEvents{submitted, approved, FixtureLoanStarted("loan-1", "req-1", "book-1", "member-a", clock)},
			actor:       Staff,
			expectedErr: core.ErrInvalidTransition,
		},
		{
			name:        "rejected",
			events:      core.DomainEvents{submitted, core.BuildIssueRequestRejected("req-1", "book-1", LibraryID, "member-a", StaffID, "", clock)},
			actor:       Staff,
			expectedErr: core.ErrInvalidTransition,
		},
		{name: "another member", events: core.DomainEvents{submitted}, actor: Member("member-b"), expectedErr: core.ErrNotPermitted},
		{name: "unknown request", actor: Staff, expectedErr: core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			history := append(core.DomainEvents{FixtureBookAdded("book-1", 1, clock)}, tc.events...)

			// act
			command := cancelissuerequest.BuildCommand(tc.actor, "req-1", clock)
			result := cancelissuerequest.Decide(history, command, "book-1", core.DefaultPolicy(LibraryID))

			// assert
			assert.Equal(t, tc.expectIdempotent, result.IsIdempotent())

			if tc.expectedErr != nil {
				assert.ErrorIs(t, result.HasError(), tc.expectedErr)
				return
			}

			if !tc.expectIdempotent {
				require.NoError(t, result.HasError())
				assert.IsType(t, core.IssueRequestCancelled{}, result.Events[0])
			}
		})
	}
}

func Test_Decide_CancellingAnApprovalReleasesTheCopyToTheQueue(t *testing.T) {
	// arrange
	clock := FakeClock()
	history := core.DomainEvents{
		FixtureBookAdded("book-1", 1, clock),
		FixtureRequestSubmitted("req-1", "book-1", "member-a", clock),
		FixtureRequestApproved("req-1", "book-1", "member-a", clock),
		FixtureReservationEnqueued("res-1", "book-1", "member-b", clock),
	}
	command := cancelissuerequest.BuildCommand(Member("member-a"), "req-1", clock)

	// act
	result := cancelissuerequest.Decide(history, command, "book-1", core.DefaultPolicy(LibraryID))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	assert.IsType(t, core.IssueRequestCancelled{}, result.Events[0])
	activated, ok := result.Events[1].(core.ReservationActivated)
	require.True(t, ok)
	assert.Equal(t, "res-1", activated.ReservationID)
}

func Test_Decide_CancellingAPendingRequestLeavesTheQueueAlone(t *testing.T) {
	// arrange
	clock := FakeClock()
	history := core.DomainEvents{
		FixtureBookAdded("book-1", 1, clock),
		FixtureLoanStarted("loan-0", "req-0", "book-1", "member-c", clock),
		FixtureRequestSubmitted("req-1", "book-1", "member-a", clock),
		FixtureReservationEnqueued("res-1", "book-1", "member-b", clock),
	}
	command := cancelissuerequest.BuildCommand(Member("member-a"), "req-1", clock)

	// act
	result := cancelissuerequest.Decide(history, command, "book-1", core.DefaultPolicy(LibraryID))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	assert.IsType(t, core.IssueRequestCancelled{}, result.Events[0])
}

func Test_CommandHandler_Handle_FreesTheMemberForANewRequest(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	circulation.Given(t,
		FixtureBookAdded("book-1", 1, FakeClock()),
		FixtureRequestSubmitted("req-1", "book-1", "member-a", FakeClock()),
	)
	handler := cancelissuerequest.NewCommandHandler(circulation.Coordinator)

	// act
	_, err := handler.Handle(ctx, cancelissuerequest.BuildCommand(Member("member-a"), "req-1", FakeClock()))

	// assert
	require.NoError(t, err)
	_, open := circulation.Book(t, "book-1").OpenRequestOf("member-a")
	assert.False(t, open)
}
