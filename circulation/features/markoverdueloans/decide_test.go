package markoverdueloans_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/markoverdueloans"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
	"github.com/hexs00si/LMS-Infy-T4-sub001/testutil/spies"
)

func twoLoans() core.DomainEvents {
	clock := FakeClock()

	return core.DomainEvents{
		FixtureBookAdded("book-1", 2, clock),
		FixtureLoanStarted("loan-2", "req-2", "book-1", "member-b", clock.AddDate(0, 0, 2)),
		FixtureLoanStarted("loan-1", "req-1", "book-1", "member-a", clock),
	}
}

func Test_Decide_Success_MarksOldestDueDateFirst(t *testing.T) {
	// arrange
	command := markoverdueloans.BuildCommand(Staff, "", FakeClock().AddDate(0, 0, 20))

	// act
	result := markoverdueloans.Decide(twoLoans(), command, "book-1")

	// assert
	require.NoError(t, result.HasError())
	marked := OfType[core.LoanMarkedOverdue](result.Events)
	require.Len(t, marked, 2)
	assert.Equal(t, "loan-1", marked[0].LoanID)
	assert.Equal(t, "loan-2", marked[1].LoanID)
	assert.Equal(t, FakeClock().AddDate(0, 0, 14), marked[0].DueAt)
}

func Test_Decide_Success_OnlyLoansPastTheirDueDate(t *testing.T) {
	// arrange
	command := markoverdueloans.BuildCommand(Staff, "", FakeClock().AddDate(0, 0, 15))

	// act
	result := markoverdueloans.Decide(twoLoans(), command, "book-1")

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	assert.Equal(t, "loan-1", result.Events[0].(core.LoanMarkedOverdue).LoanID)
}

func Test_Decide_Idempotent(t *testing.T) {
	clock := FakeClock()

	testCases := []struct {
		name    string
		history core.DomainEvents
		command markoverdueloans.Command
	}{
		{
			name:    "nothing due yet",
			history: twoLoans(),
			command: markoverdueloans.BuildCommand(Staff, "", clock.AddDate(0, 0, 14)),
		},
		{
			name: "already marked",
			history: append(twoLoans(),
				core.BuildLoanMarkedOverdue("loan-1", "book-1", LibraryID, "member-a", clock.AddDate(0, 0, 14), clock.AddDate(0, 0, 15)),
			),
			command: markoverdueloans.BuildCommand(Staff, "", clock.AddDate(0, 0, 15)),
		},
		{
			name: "returned late",
			history: append(twoLoans(),
				core.BuildLoanReturned("loan-1", "book-1", LibraryID, "member-a", clock.AddDate(0, 0, 15), 1, 50, clock.AddDate(0, 0, 15)),
			),
			command: markoverdueloans.BuildCommand(Staff, "", clock.AddDate(0, 0, 15)),
		},
		{
			name:    "other library",
			history: twoLoans(),
			command: markoverdueloans.BuildCommand(Staff, "lib-2", clock.AddDate(0, 0, 20)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := markoverdueloans.Decide(tc.history, tc.command, "book-1")

			// assert
			assert.True(t, result.IsIdempotent())
		})
	}
}

func Test_Decide_Error_WhenMemberRunsTheSweep(t *testing.T) {
	// arrange
	command := markoverdueloans.BuildCommand(Member("member-a"), "", FakeClock().AddDate(0, 0, 20))

	// act
	result := markoverdueloans.Decide(twoLoans(), command, "book-1")

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrNotPermitted)
}

func Test_CommandHandler_Handle_NotifiesOnce(t *testing.T) {
	// arrange
	ctx := t.Context()
	clock := FakeClock()
	circulation := GivenCirculation(t)
	circulation.Given(t, twoLoans()...)
	handler := markoverdueloans.NewCommandHandler(circulation.Coordinator)
	command := markoverdueloans.BuildCommand(Staff, LibraryID, clock.AddDate(0, 0, 15))

	// act
	result, err := handler.Handle(ctx, command)
	repeated, repeatedErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	require.NoError(t, repeatedErr)
	assert.True(t, repeated.Idempotent)

	overdue := circulation.Notifier.OfKind(core.NotificationLoanOverdue)
	require.Len(t, overdue, 1)
	assert.Equal(t, "member-a", overdue[0].MemberID)
	assert.Equal(t, "loan-1", overdue[0].ReferenceID)

	loan, _ := circulation.Book(t, "book-1").Loan("loan-1")
	assert.True(t, loan.MarkedOverdue)
}

func Test_CommandHandler_Handle_LogsTheSweep(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	circulation.Given(t, twoLoans()...)
	logs := spies.NewLogHandlerSpy()
	handler := markoverdueloans.NewCommandHandler(circulation.Coordinator, markoverdueloans.WithLogger(slog.New(logs)))

	// act
	_, err := handler.Handle(ctx, markoverdueloans.BuildCommand(Staff, "", FakeClock().AddDate(0, 0, 20)))

	// assert
	require.NoError(t, err)
	assert.True(t, logs.HasRecord(slog.LevelInfo, shell.LogMsgSweepBookProcessed))
	assert.True(t, logs.HasAttr(shell.LogMsgSweepCompleted, shell.LogAttrAppendedEventCount, "2"))
}
