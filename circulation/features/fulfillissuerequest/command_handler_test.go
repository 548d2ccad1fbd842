package fulfillissuerequest_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/fulfillissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	. "github.com/hexs00si/LMS-Infy-T4-sub001/testutil/helper" //nolint:revive
)

// appendBarrier holds every Append until `parties` appends arrived,
// so all of them have read their boundary before the first one writes.
type appendBarrier struct {
	shell.EventStore
	parties int32
	arrived atomic.Int32
	release chan struct{}
}

func newAppendBarrier(inner shell.EventStore, parties int32) *appendBarrier {
	return &appendBarrier{EventStore: inner, parties: parties, release: make(chan struct{})}
}

func (b *appendBarrier) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if b.arrived.Add(1) == b.parties {
		close(b.release)
	}

	select {
	case <-b.release:
	case <-time.After(5 * time.Second):
	}

	return b.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, storableEvents...)
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	circulation.Given(t, approvedRequest(1)...)
	handler := fulfillissuerequest.NewCommandHandler(circulation.Coordinator)
	command := fulfillissuerequest.BuildCommand(Staff, "req-1", "loan-1", FakeClock())

	// act
	result, err := handler.Handle(ctx, command)
	repeated, repeatedErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	require.NoError(t, repeatedErr)
	assert.Len(t, result.Events, 1)
	assert.True(t, repeated.Idempotent)

	book := circulation.Book(t, "book-1")
	assert.Equal(t, 0, book.AvailableCopies())
	assert.Equal(t, core.BookCheckedOut, book.State())
	request, _ := book.Request("req-1")
	assert.Equal(t, core.RequestFulfilled, request.Status)
	assert.Equal(t, "loan-1", request.LoanID)
}

func Test_CommandHandler_Handle_ConcurrentFulfillmentOfTheSameRequest(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	clock := FakeClock()
	circulation.Given(t, approvedRequest(1)...)

	coordinator, err := shell.NewCoordinator(newAppendBarrier(circulation.Store, 2), circulation.Policies)
	require.NoError(t, err)
	handler := fulfillissuerequest.NewCommandHandler(coordinator)

	commands := []fulfillissuerequest.Command{
		fulfillissuerequest.BuildCommand(Staff, "req-1", "loan-a", clock),
		fulfillissuerequest.BuildCommand(Staff, "req-1", "loan-b", clock),
	}
	errs := make([]error, len(commands))

	// act
	var wg sync.WaitGroup
	for i, command := range commands {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, command)
		}()
	}
	wg.Wait()

	// assert
	committed, stale := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case assert.ErrorIs(t, err, core.ErrStaleState):
			stale++
		}
	}

	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, stale)

	book := circulation.Book(t, "book-1")
	assert.Len(t, book.ActiveLoans(), 1)
	assert.NoError(t, book.CheckInvariants())
}

func Test_CommandHandler_Handle_RetryReevaluatesAfterStaleState(t *testing.T) {
	// arrange
	ctx := t.Context()
	onlyOneBook := core.DefaultPolicy(LibraryID)
	onlyOneBook.MaxBooksPerMember = 1
	circulation := GivenCirculation(t, onlyOneBook)
	clock := FakeClock()
	circulation.Given(t,
		FixtureBookAdded("book-1", 1, clock),
		FixtureBookAdded("book-2", 1, clock),
		FixtureRequestSubmitted("req-1", "book-1", "member-a", clock),
		FixtureRequestApproved("req-1", "book-1", "member-a", clock),
		FixtureRequestSubmitted("req-2", "book-2", "member-a", clock),
		FixtureRequestApproved("req-2", "book-2", "member-a", clock),
	)

	coordinator, err := shell.NewCoordinator(newAppendBarrier(circulation.Store, 2), circulation.Policies)
	require.NoError(t, err)
	handler := fulfillissuerequest.NewCommandHandler(coordinator,
		fulfillissuerequest.WithRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond)),
	)

	commands := []fulfillissuerequest.Command{
		fulfillissuerequest.BuildCommand(Staff, "req-1", "loan-1", clock),
		fulfillissuerequest.BuildCommand(Staff, "req-2", "loan-2", clock),
	}
	errs := make([]error, len(commands))

	// act
	var wg sync.WaitGroup
	for i, command := range commands {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, command)
		}()
	}
	wg.Wait()

	// assert
	limitExceeded := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, core.ErrMemberLimitExceeded, "the retry must see the loan of the winner")
			limitExceeded++
		}
	}

	assert.Equal(t, 1, limitExceeded)
	loans := len(circulation.Book(t, "book-1").ActiveLoans()) + len(circulation.Book(t, "book-2").ActiveLoans())
	assert.Equal(t, 1, loans)
}

func Test_CommandHandler_Handle_Error_WhenLoanIDIsUsedInAnotherBook(t *testing.T) {
	// arrange
	ctx := t.Context()
	circulation := GivenCirculation(t)
	clock := FakeClock()
	circulation.Given(t, FixtureBookAdded("book-2", 1, clock))
	circulation.GivenLoan(t, "loan-1", "book-2", "member-b", clock)
	circulation.Given(t, approvedRequest(1)...)
	handler := fulfillissuerequest.NewCommandHandler(circulation.Coordinator)

	// act
	_, err := handler.Handle(ctx, fulfillissuerequest.BuildCommand(Staff, "req-1", "loan-1", clock))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	request, _ := circulation.Book(t, "book-1").Request("req-1")
	assert.Equal(t, core.RequestApproved, request.Status)
	assert.Empty(t, circulation.Book(t, "book-1").ActiveLoans())
}
