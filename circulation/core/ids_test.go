package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

func Test_CreatingEvents_AreFoundInAnyBook(t *testing.T) {
	history := core.DomainEvents{
		core.BuildIssueRequestSubmitted("req-1", "book-2", libraryID, "member-a", t0),
		core.BuildLoanStarted("loan-1", "req-1", "book-2", libraryID, "member-a", "", t0, t0, t0),
		core.BuildReservationEnqueued("res-1", "book-3", libraryID, "member-b", t0),
	}

	request, ok := core.SubmittedRequest(history, "req-1")
	require.True(t, ok)
	assert.Equal(t, "book-2", request.BookID)

	loan, ok := core.StartedLoan(history, "loan-1")
	require.True(t, ok)
	assert.Equal(t, "req-1", loan.RequestID)

	reservation, ok := core.EnqueuedReservation(history, "res-1")
	require.True(t, ok)
	assert.Equal(t, "book-3", reservation.BookID)

	_, ok = core.StartedLoan(history, "loan-2")
	assert.False(t, ok)
}
