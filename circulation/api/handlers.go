package api

import (
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/addbook"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/bookavailability"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/cancelissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/cancelreservation"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/deactivatebook"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/decideissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/enqueuereservation"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/expirestalereservations"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/fulfillissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/markoverdueloans"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/memberloansummary"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/returnloan"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/features/submitissuerequest"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell/observable"
)

// Handlers are all circulation operations, each wrapped with observability.
type Handlers struct {
	AddBook                 shell.CoreCommandHandler[addbook.Command]
	DeactivateBook          shell.CoreCommandHandler[deactivatebook.Command]
	SubmitIssueRequest      shell.CoreCommandHandler[submitissuerequest.Command]
	DecideIssueRequest      shell.CoreCommandHandler[decideissuerequest.Command]
	FulfillIssueRequest     shell.CoreCommandHandler[fulfillissuerequest.Command]
	CancelIssueRequest      shell.CoreCommandHandler[cancelissuerequest.Command]
	ReturnLoan              shell.CoreCommandHandler[returnloan.Command]
	EnqueueReservation      shell.CoreCommandHandler[enqueuereservation.Command]
	CancelReservation       shell.CoreCommandHandler[cancelreservation.Command]
	ExpireStaleReservations shell.CoreCommandHandler[expirestalereservations.Command]
	MarkOverdueLoans        shell.CoreCommandHandler[markoverdueloans.Command]
	BookAvailability        shell.CoreQueryHandler[bookavailability.Query, bookavailability.BookAvailability]
	MemberLoanSummary       shell.CoreQueryHandler[memberloansummary.Query, memberloansummary.MemberLoanSummary]
}

// Observability holds the collectors and loggers the handlers are wrapped with. All fields are optional.
type Observability struct {
	Metrics          shell.MetricsCollector
	Tracing          shell.TracingCollector
	Logger           shell.Logger
	ContextualLogger shell.ContextualLogger
}

// NewHandlers creates all handlers on top of one coordinator.
// Retry options apply to the single-boundary commands, the sweeps keep their own retry per book.
func NewHandlers(coordinator *shell.Coordinator, obs Observability, retry ...shell.RetryOption) (Handlers, error) {
	var (
		h   Handlers
		err error
	)

	if h.AddBook, err = wrapCommand[addbook.Command](
		addbook.NewCommandHandler(coordinator, addbook.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.DeactivateBook, err = wrapCommand[deactivatebook.Command](
		deactivatebook.NewCommandHandler(coordinator, deactivatebook.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.SubmitIssueRequest, err = wrapCommand[submitissuerequest.Command](
		submitissuerequest.NewCommandHandler(coordinator, submitissuerequest.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.DecideIssueRequest, err = wrapCommand[decideissuerequest.Command](
		decideissuerequest.NewCommandHandler(coordinator, decideissuerequest.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.FulfillIssueRequest, err = wrapCommand[fulfillissuerequest.Command](
		fulfillissuerequest.NewCommandHandler(coordinator, fulfillissuerequest.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.CancelIssueRequest, err = wrapCommand[cancelissuerequest.Command](
		cancelissuerequest.NewCommandHandler(coordinator, cancelissuerequest.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.ReturnLoan, err = wrapCommand[returnloan.Command](
		returnloan.NewCommandHandler(coordinator, returnloan.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.EnqueueReservation, err = wrapCommand[enqueuereservation.Command](
		enqueuereservation.NewCommandHandler(coordinator, enqueuereservation.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.CancelReservation, err = wrapCommand[cancelreservation.Command](
		cancelreservation.NewCommandHandler(coordinator, cancelreservation.WithRetryOptions(retryOrDefault(retry)...)), obs); err != nil {
		return Handlers{}, err
	}

	if h.ExpireStaleReservations, err = wrapCommand[expirestalereservations.Command](
		expirestalereservations.NewCommandHandler(coordinator,
			expirestalereservations.WithLogger(obs.Logger),
			expirestalereservations.WithContextualLogger(obs.ContextualLogger)), obs); err != nil {
		return Handlers{}, err
	}

	if h.MarkOverdueLoans, err = wrapCommand[markoverdueloans.Command](
		markoverdueloans.NewCommandHandler(coordinator,
			markoverdueloans.WithLogger(obs.Logger),
			markoverdueloans.WithContextualLogger(obs.ContextualLogger)), obs); err != nil {
		return Handlers{}, err
	}

	if h.BookAvailability, err = wrapQuery[bookavailability.Query, bookavailability.BookAvailability](
		bookavailability.NewQueryHandler(coordinator), obs); err != nil {
		return Handlers{}, err
	}

	if h.MemberLoanSummary, err = wrapQuery[memberloansummary.Query, memberloansummary.MemberLoanSummary](
		memberloansummary.NewQueryHandler(coordinator), obs); err != nil {
		return Handlers{}, err
	}

	return h, nil
}

func retryOrDefault(retry []shell.RetryOption) []shell.RetryOption {
	if len(retry) == 0 {
		return []shell.RetryOption{shell.WithMaxAttempts(1)}
	}

	return retry
}

func wrapCommand[C shell.Command](coreHandler shell.CoreCommandHandler[C], obs Observability) (shell.CoreCommandHandler[C], error) {
	return observable.NewCommandWrapper(coreHandler,
		observable.WithCommandMetrics[C](obs.Metrics),
		observable.WithCommandTracing[C](obs.Tracing),
		observable.WithCommandLogging[C](obs.Logger),
		observable.WithCommandContextualLogging[C](obs.ContextualLogger),
	)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	coreHandler shell.CoreQueryHandler[Q, R],
	obs Observability,
) (shell.CoreQueryHandler[Q, R], error) {

	return observable.NewQueryWrapper(coreHandler,
		observable.WithQueryMetrics[Q, R](obs.Metrics),
		observable.WithQueryTracing[Q, R](obs.Tracing),
		observable.WithQueryLogging[Q, R](obs.Logger),
		observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger),
	)
}
