package helper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/policy"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore/memengine"
	"github.com/hexs00si/LMS-Infy-T4-sub001/testutil/spies"
)

const (
	LibraryID = "lib-1"
	StaffID   = "staff-1"
)

// Staff is a librarian of LibraryID.
var Staff = core.Actor{ID: StaffID, Role: core.RoleStaff}

// Member returns the actor of a member acting for itself.
func Member(memberID core.MemberIDString) core.Actor {
	return core.Actor{ID: memberID, Role: core.RoleMember}
}

// FakeClock is the start of every test timeline.
func FakeClock() time.Time {
	return time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
}

// Circulation bundles an in-memory event store with the coordinator and the spies around it.
type Circulation struct {
	Store       *memengine.EventStore
	Policies    *policy.StaticStore
	Notifier    *spies.NotifierSpy
	Coordinator *shell.Coordinator
}

// GivenCirculation creates an empty circulation with the default policy of LibraryID
// unless other policies are given.
func GivenCirculation(t testing.TB, policies ...core.LibraryPolicy) Circulation {
	t.Helper()

	if len(policies) == 0 {
		policies = []core.LibraryPolicy{core.DefaultPolicy(LibraryID)}
	}

	store, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	policyStore := policy.NewStaticStore(policies...)
	notifier := spies.NewNotifierSpy()

	coordinator, err := shell.NewCoordinator(store, policyStore, shell.WithNotifier(notifier))
	require.NoError(t, err, "error in arranging test data")

	return Circulation{
		Store:       store,
		Policies:    policyStore,
		Notifier:    notifier,
		Coordinator: coordinator,
	}
}

// Given appends events unconditionally, bypassing the coordinator's invariant check.
func (c Circulation) Given(t testing.TB, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	storableEvents := make(eventstore.StorableEvents, 0, len(events))
	for _, event := range events {
		storableEvents = append(storableEvents, ToStorable(t, event))
	}

	err := c.Store.Append(ctx, filter, maxSequenceNumber(t, ctx, c.Store, filter), storableEvents...)
	require.NoError(t, err, "error in arranging test data")
}

// Events returns every stored event in sequence order.
func (c Circulation) Events(t testing.TB) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := c.Store.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	domainEvents, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return domainEvents
}

// Book projects the inventory ledger of a book from the store.
func (c Circulation) Book(t testing.TB, bookID core.BookIDString) *core.BookInventory {
	t.Helper()

	return core.ProjectBook(c.Events(t), bookID)
}

func maxSequenceNumber(t testing.TB, ctx context.Context, es shell.EventStore, filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	_, maxSequenceNumBeforeAppend, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	return maxSequenceNumBeforeAppend
}

func ToStorable(t testing.TB, domainEvent core.DomainEvent) eventstore.StorableEvent {
	storableEvent, err := shell.StorableEventFrom(domainEvent, shell.EventMetadata{})
	require.NoError(t, err, "error in arranging test data")

	return storableEvent
}

// OfType returns the events of type E.
func OfType[E core.DomainEvent](events core.DomainEvents) []E {
	var matching []E

	for _, event := range events {
		if e, ok := event.(E); ok {
			matching = append(matching, e)
		}
	}

	return matching
}

func FixtureBookAdded(bookID core.BookIDString, quantity int, fakeClock time.Time) core.BookAddedToCirculation {
	return core.BuildBookAddedToCirculation(
		bookID,
		LibraryID,
		"Learning Domain-Driven Design",
		"Vlad Khononov",
		"978-1-098-10013-1",
		quantity,
		fakeClock,
	)
}

func FixtureRequestSubmitted(requestID, bookID, memberID string, fakeClock time.Time) core.IssueRequestSubmitted {
	return core.BuildIssueRequestSubmitted(requestID, bookID, LibraryID, memberID, fakeClock)
}

func FixtureRequestApproved(requestID, bookID, memberID string, fakeClock time.Time) core.IssueRequestApproved {
	return core.BuildIssueRequestApproved(requestID, bookID, LibraryID, memberID, StaffID, fakeClock)
}

func FixtureLoanStarted(loanID, requestID, bookID, memberID string, fakeClock time.Time) core.LoanStarted {
	return core.BuildLoanStarted(
		loanID,
		requestID,
		bookID,
		LibraryID,
		memberID,
		"",
		fakeClock,
		core.DueDate(fakeClock, core.DefaultPolicy(LibraryID)),
		fakeClock,
	)
}

func FixtureReservationEnqueued(reservationID, bookID, memberID string, fakeClock time.Time) core.ReservationEnqueued {
	return core.BuildReservationEnqueued(reservationID, bookID, LibraryID, memberID, fakeClock)
}

func FixtureReservationActivated(reservationID, bookID, memberID string, fakeClock time.Time) core.ReservationActivated {
	return core.BuildReservationActivated(
		reservationID,
		bookID,
		LibraryID,
		memberID,
		fakeClock.AddDate(0, 0, core.DefaultPolicy(LibraryID).HoldWindowDays),
		fakeClock,
	)
}

// GivenLoan appends the submitted, approved and started events of a loan.
func (c Circulation) GivenLoan(t testing.TB, loanID, bookID, memberID string, fakeClock time.Time) {
	t.Helper()

	requestID := "req-" + loanID

	c.Given(t,
		FixtureRequestSubmitted(requestID, bookID, memberID, fakeClock),
		FixtureRequestApproved(requestID, bookID, memberID, fakeClock),
		FixtureLoanStarted(loanID, requestID, bookID, memberID, fakeClock),
	)
}
