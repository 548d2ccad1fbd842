package returnloan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/returnloan"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
)

func lentOut() core.DomainEvents {
	clock := FakeClock()

	return core.DomainEvents{
		FixtureBookAdded("book-1", 1, clock),
		FixtureRequestSubmitted("req-1", "book-1", "member-a", clock),
		FixtureRequestApproved("req-1", "book-1", "member-a", clock),
		FixtureLoanStarted("loan-1", "req-1", "book-1", "member-a", clock),
	}
}

func Test_Decide_Success_SettlesTheFine(t *testing.T) {
	// arrange
	returnedAt := FakeClock().AddDate(0, 0, 19) // due after 14 days, returned 5 days late
	command := returnloan.BuildCommand(Staff, "loan-1", returnedAt)

	// act
	result := returnloan.Decide(lentOut(), command, "book-1", core.DefaultPolicy(LibraryID))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	returned, ok := result.Events[0].(core.LoanReturned)
	require.True(t, ok)
	assert.Equal(t, 5, returned.DaysOverdue)
	assert.Equal(t, core.Money(250), returned.FineCents)
	assert.Equal(t, "2.50", returned.FineCents.String())
}

func Test_Decide_Success_NoFineWhenReturnedInTime(t *testing.T) {
	// arrange
	command := returnloan.BuildCommand(Staff, "loan-1", FakeClock().AddDate(0, 0, 14))

	// act
	result := returnloan.Decide(lentOut(), command, "book-1", core.DefaultPolicy(LibraryID))

	// assert
	require.NoError(t, result.HasError())
	returned := result.Events[0].(core.LoanReturned)
	assert.Equal(t, 0, returned.DaysOverdue)
	assert.Equal(t, core.Money(0), returned.FineCents)
}

func Test_Decide_Success_ActivatesTheHeadOfTheQueue(t *testing.T) {
	// arrange
	clock := FakeClock()
	history := append(lentOut(),
		FixtureReservationEnqueued("res-2", "book-1", "member-c", clock),
		FixtureReservationEnqueued("res-1", "book-1", "member-b", clock),
	)
	returnedAt := clock.AddDate(0, 0, 3)
	command := returnloan.BuildCommand(Staff, "loan-1", returnedAt)

	// act
	result := returnloan.Decide(history, command, "book-1", core.DefaultPolicy(LibraryID))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	activated, ok := result.Events[1].(core.ReservationActivated)
	require.True(t, ok)
	assert.Equal(t, "res-1", activated.ReservationID)
	assert.Equal(t, returnedAt.AddDate(0, 0, 3), activated.HoldExpiresAt)

	book := core.ProjectBook(append(history, result.Events...), "book-1")
	assert.Equal(t, 0, book.AvailableCopies())
	assert.Equal(t, 1, book.HeldCopies())
	assert.Equal(t, core.BookReserved, book.State())
	assert.NoError(t, book.CheckInvariants())
}

func Test_Decide_Idempotent_WhenReturned(t *testing.T) {
	// arrange
	clock := FakeClock()
	history := append(lentOut(), core.BuildLoanReturned("loan-1", "book-1", LibraryID, "member-a", clock, 0, 0, clock))

	// act
	result := returnloan.Decide(history, returnloan.BuildCommand(Staff, "loan-1", clock), "book-1", core.DefaultPolicy(LibraryID))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_Error(t *testing.T) {
	clock := FakeClock()

	result := returnloan.Decide(lentOut(), returnloan.BuildCommand(Member("member-a"), "loan-1", clock), "book-1", core.DefaultPolicy(LibraryID))
	assert.ErrorIs(t, result.HasError(), core.ErrNotPermitted)

	result = returnloan.Decide(lentOut(), returnloan.BuildCommand(Staff, "loan-2", clock), "book-1", core.DefaultPolicy(LibraryID))
	assert.ErrorIs(t, result.HasError(), core.ErrNotFound)
}

func Test_CommandHandler_Handle_NotifiesTheActivatedMember(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	circulation.Given(t, lentOut()...)
	circulation.Given(t, FixtureReservationEnqueued("res-1", "book-1", "member-b", FakeClock()))
	handler := returnloan.NewCommandHandler(circulation.Coordinator)

	// act
	result, err := handler.Handle(ctx, returnloan.BuildCommand(Staff, "loan-1", FakeClock().AddDate(0, 0, 2)))

	// assert
	require.NoError(t, err)
	assert.Len(t, result.Events, 2)
	ready := circulation.Notifier.OfKind(core.NotificationReservationReady)
	require.Len(t, ready, 1)
	assert.Equal(t, "member-b", ready[0].MemberID)
}

func Test_CommandHandler_Handle_UnknownLoan(t *testing.T) {
	circulation := GivenCirculation(t)
	handler := returnloan.NewCommandHandler(circulation.Coordinator)

	_, err := handler.Handle(t.Context(), returnloan.BuildCommand(Staff, "loan-404", FakeClock()))

	assert.ErrorIs(t, err, core.ErrNotFound)
}
