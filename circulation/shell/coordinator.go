package shell

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/eventstore"
)

var (
	// ErrNilEventStore is returned when NewCoordinator gets no event store.
	ErrNilEventStore = errors.New("event store must not be nil")

	// ErrNilPolicyStore is returned when NewCoordinator gets no policy store.
	ErrNilPolicyStore = errors.New("policy store must not be nil")

	// ErrLoadingHistoryFailed wraps query and mapping failures of Load.
	ErrLoadingHistoryFailed = errors.New("loading history failed")
)

// History is the decoded dynamic event stream of a boundary.
// Version is the max sequence number of the stream and becomes the expected version of the commit.
type History struct {
	Events  core.DomainEvents
	Version eventstore.MaxSequenceNumberUint
}

// OperationSet is everything one operation wants to change, committed all-or-nothing.
// The Filter must be the one History was loaded with.
type OperationSet struct {
	Action  string
	ActorID string
	Filter  eventstore.Filter
	History History
	Events  core.DomainEvents
}

// Commit is what a command handler committed.
type Commit struct {
	Idempotent bool
	Events     core.DomainEvents
}

// Coordinator is the only component that writes circulation state.
//
// It never holds locks across calls: Load reads a boundary, the caller decides,
// and Apply commits with a conditional append which fails with core.ErrStaleState
// if any event of the boundary was written in the meantime.
type Coordinator struct {
	eventStore       EventStore
	policies         PolicyStore
	notifier         Notifier
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator) error

// WithNotifier sets the notification dispatcher used after successful commits.
func WithNotifier(notifier Notifier) CoordinatorOption {
	return func(c *Coordinator) error {
		c.notifier = notifier

		return nil
	}
}

// WithLogger sets a logger for commits, stale operation sets and notification failures.
func WithLogger(logger Logger) CoordinatorOption {
	return func(c *Coordinator) error {
		c.logger = logger

		return nil
	}
}

// WithContextualLogger sets a context-aware logger. It takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) CoordinatorOption {
	return func(c *Coordinator) error {
		c.contextualLogger = logger

		return nil
	}
}

// WithCoordinatorMetrics sets the metrics collector for invariant violations and notifications.
func WithCoordinatorMetrics(collector MetricsCollector) CoordinatorOption {
	return func(c *Coordinator) error {
		c.metricsCollector = collector

		return nil
	}
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(eventStore EventStore, policies PolicyStore, options ...CoordinatorOption) (*Coordinator, error) {
	if eventStore == nil {
		return nil, ErrNilEventStore
	}

	if policies == nil {
		return nil, ErrNilPolicyStore
	}

	c := &Coordinator{
		eventStore: eventStore,
		policies:   policies,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Load reads the boundary selected by filter with strong consistency.
func (c *Coordinator) Load(ctx context.Context, filter eventstore.Filter) (History, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := c.eventStore.Query(ctx, filter)
	if err != nil {
		return History{}, errors.Join(ErrLoadingHistoryFailed, err)
	}

	domainEvents, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return History{}, errors.Join(ErrLoadingHistoryFailed, err)
	}

	return History{Events: domainEvents, Version: maxSequenceNumber}, nil
}

// Locate finds the event that created an entity, e.g. the IssueRequestSubmitted of a request id.
// It returns core.ErrNotFound if there is none.
func (c *Coordinator) Locate(
	ctx context.Context,
	eventType core.EventTypeString,
	key string,
	id string,
) (core.DomainEvent, error) {

	if id == "" {
		return nil, fmt.Errorf("%w: empty %s", core.ErrNotFound, key)
	}

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventType).
		AndAnyPredicateOf(eventstore.P(key, id)).
		Finalize()

	history, err := c.Load(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(history.Events) == 0 {
		return nil, fmt.Errorf("%w: %s %s", core.ErrNotFound, key, id)
	}

	return history.Events[0], nil
}

// Policy returns the validated policy of a library.
func (c *Coordinator) Policy(ctx context.Context, libraryID core.LibraryIDString) (core.LibraryPolicy, error) {
	policy, err := c.policies.PolicyFor(ctx, libraryID)
	if err != nil {
		LogError(ctx, c.logger, c.contextualLogger, LogMsgPolicyLookupFailed, LogAttrError, err.Error())
		return core.LibraryPolicy{}, err
	}

	if err = policy.Validate(); err != nil {
		return core.LibraryPolicy{}, err
	}

	return policy, nil
}

// BookPolicy returns the policy of the library a book belongs to.
// Unknown books have no library, for them the zero policy is returned and the decision refuses the operation.
func (c *Coordinator) BookPolicy(ctx context.Context, book *core.BookInventory) (core.LibraryPolicy, error) {
	if !book.Exists() {
		return core.LibraryPolicy{}, nil
	}

	return c.Policy(ctx, book.LibraryID)
}

// BooksWith returns the ids of all books which have an event of the given type, optionally restricted to one library.
// Sweeps use it to find the books they have to look at.
func (c *Coordinator) BooksWith(
	ctx context.Context,
	eventType core.EventTypeString,
	libraryID core.LibraryIDString,
) ([]core.BookIDString, error) {

	// an empty library id is a partial predicate and dropped by the builder
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventType).
		AndAnyPredicateOf(eventstore.P(core.PredicateLibraryID, libraryID)).
		Finalize()

	history, err := c.Load(ctx, filter)
	if err != nil {
		return nil, err
	}

	var bookIDs []core.BookIDString
	for _, event := range history.Events {
		if bookID := event.References().BookID; !slices.Contains(bookIDs, bookID) {
			bookIDs = append(bookIDs, bookID)
		}
	}

	slices.Sort(bookIDs)

	return bookIDs, nil
}

// Commit applies the events of a decision and returns what was committed.
// Idempotent decisions commit nothing. A business error of the decision is returned after its
// failure events were committed.
func (c *Coordinator) Commit(ctx context.Context, set OperationSet, decision core.DecisionResult) (Commit, error) {
	if decision.IsIdempotent() {
		return Commit{Idempotent: true}, nil
	}

	set.Events = decision.Events

	if err := c.Apply(ctx, set); err != nil {
		return Commit{}, err
	}

	return Commit{Events: decision.Events}, decision.HasError()
}

// Apply commits the operation set atomically.
//
// Before writing it re-projects history plus the new events and checks the ledger invariants
// of every touched book and the loan limit of every member who gets a new loan.
// A violation returns core.ErrInvariantViolation and nothing is written.
// If the boundary moved since it was loaded, core.ErrStaleState is returned and nothing is written.
// After a successful commit, notifications are dispatched best effort.
func (c *Coordinator) Apply(ctx context.Context, set OperationSet) error {
	if len(set.Events) == 0 {
		return nil
	}

	if err := c.checkInvariants(ctx, set); err != nil {
		LogError(ctx, c.logger, c.contextualLogger, LogMsgInvariantViolated,
			LogAttrAction, set.Action, LogAttrError, err.Error())

		if c.metricsCollector != nil {
			incrementCounter(ctx, c.metricsCollector, CoordinatorInvariantViolationsMetric,
				map[string]string{LogAttrAction: set.Action})
		}

		return err
	}

	causationID := uuid.NewString()
	storableEvents := make(eventstore.StorableEvents, 0, len(set.Events))

	for _, event := range set.Events {
		metadata := EventMetadataForOperation(ctx, causationID, set.Action, set.ActorID)

		storableEvent, err := StorableEventFrom(event, metadata)
		if err != nil {
			return err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	err := c.eventStore.Append(ctx, set.Filter, set.History.Version, storableEvents...)
	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
		LogInfo(ctx, c.logger, c.contextualLogger, LogMsgOperationStale,
			LogAttrAction, set.Action, LogAttrExpectedVersion, set.History.Version)

		return errors.Join(core.ErrStaleState, err)
	}

	if err != nil {
		return err
	}

	LogInfo(ctx, c.logger, c.contextualLogger, LogMsgOperationCommitted,
		LogAttrAction, set.Action, LogAttrEventCount, len(set.Events))

	c.dispatch(ctx, set.Events)

	return nil
}

func (c *Coordinator) checkInvariants(ctx context.Context, set OperationSet) error {
	combined := slices.Concat(set.History.Events, set.Events)

	var errs []error

	checkedBooks := make(map[core.BookIDString]bool)
	checkedMembers := make(map[core.MemberIDString]bool)

	for _, event := range set.Events {
		refs := event.References()

		if refs.BookID != "" && !checkedBooks[refs.BookID] {
			checkedBooks[refs.BookID] = true
			errs = append(errs, core.ProjectBook(combined, refs.BookID).CheckInvariants())
		}

		loan, ok := event.(core.LoanStarted)
		if !ok || checkedMembers[loan.MemberID] {
			continue
		}

		checkedMembers[loan.MemberID] = true

		policy, err := c.Policy(ctx, loan.LibraryID)
		if err != nil {
			return err
		}

		errs = append(errs, core.ProjectMemberLoans(combined, loan.MemberID).CheckLimit(policy))
	}

	return errors.Join(errs...)
}

func (c *Coordinator) dispatch(ctx context.Context, events core.DomainEvents) {
	if c.notifier == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)

	for _, event := range events {
		notification, ok := core.NotificationFor(event)
		if !ok {
			continue
		}

		status := StatusSuccess

		if err := c.notifier.Notify(ctx, notification); err != nil {
			status = StatusError

			LogWarn(ctx, c.logger, c.contextualLogger, LogMsgNotificationFailed,
				LogAttrNotificationKind, string(notification.Kind),
				LogAttrMemberID, notification.MemberID,
				LogAttrError, err.Error())
		}

		if c.metricsCollector != nil {
			incrementCounter(ctx, c.metricsCollector, CoordinatorNotificationsMetric, map[string]string{
				LogAttrNotificationKind: string(notification.Kind),
				LogAttrStatus:           status,
			})
		}
	}
}

// ResultFrom turns the outcome of a retried commit into the handler's return values.
func ResultFrom(retryMetrics RetryMetrics, commit Commit, err error) (HandlerResult, error) {
	if err != nil {
		return NewErrorResult(retryMetrics, commit.Events), err
	}

	if commit.Idempotent {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(retryMetrics, commit.Events), nil
}
