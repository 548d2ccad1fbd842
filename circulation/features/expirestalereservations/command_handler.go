package expirestalereservations

import (
	"context"
	"errors"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

// CommandHandler runs the sweep: it finds the books with holds and runs Load -> Decide -> Apply for each of them.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	coordinator      *shell.Coordinator
	retryOptions     []shell.RetryOption
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithLogger sets the logger which reports the progress of the sweep per book.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithContextualLogger sets a context-aware logger, it takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.contextualLogger = logger
	}
}

// NewCommandHandler creates a new CommandHandler.
// Sweeps run unattended, so a book whose boundary moved is retried with the default backoff.
func NewCommandHandler(coordinator *shell.Coordinator, opts ...Option) CommandHandler {
	handler := CommandHandler{
		coordinator: coordinator,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle sweeps all candidate books. Books which fail are reported in the joined error,
// the events committed for the other books are part of the result.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := Authorize(command); err != nil {
		return shell.HandlerResult{}, err
	}

	bookIDs, err := h.coordinator.BooksWith(ctx, core.ReservationActivatedEventType, command.LibraryID)
	if err != nil {
		return shell.HandlerResult{}, err
	}

	result := shell.HandlerResult{Idempotent: true}
	var errs []error

	for _, bookID := range bookIDs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		var committed shell.Commit

		retryMetrics, retryErr := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
			var execErr error
			committed, execErr = h.sweepBook(retryCtx, command, bookID)

			return execErr
		}, h.retryOptions...)

		bookResult, bookErr := shell.ResultFrom(retryMetrics, committed, retryErr)
		result = result.Merge(bookResult)

		if bookErr != nil {
			errs = append(errs, bookErr)
			shell.LogWarn(ctx, h.logger, h.contextualLogger, shell.LogMsgSweepBookFailed,
				shell.LogAttrCommandType, commandType,
				shell.LogAttrBookID, bookID,
				shell.LogAttrError, bookErr.Error(),
			)

			continue
		}

		shell.LogInfo(ctx, h.logger, h.contextualLogger, shell.LogMsgSweepBookProcessed,
			shell.LogAttrCommandType, commandType,
			shell.LogAttrBookID, bookID,
			shell.LogAttrEventCount, len(bookResult.Events),
		)
	}

	if len(errs) > 0 {
		result.Idempotent = false
	}

	shell.LogInfo(ctx, h.logger, h.contextualLogger, shell.LogMsgSweepCompleted,
		shell.LogAttrCommandType, commandType,
		shell.LogAttrProcessedBooks, len(bookIDs),
		shell.LogAttrAppendedEventCount, len(result.Events),
	)

	return result, errors.Join(errs...)
}

func (h CommandHandler) sweepBook(ctx context.Context, command Command, bookID core.BookIDString) (shell.Commit, error) {
	filter := BuildEventFilter(bookID)

	history, err := h.coordinator.Load(ctx, filter)
	if err != nil {
		return shell.Commit{}, err
	}

	policy, err := h.coordinator.BookPolicy(ctx, core.ProjectBook(history.Events, bookID))
	if err != nil {
		return shell.Commit{}, err
	}

	decision := Decide(history.Events, command, bookID, policy)

	return h.coordinator.Commit(ctx, shell.OperationSet{
		Action:  commandType,
		ActorID: command.Actor.ID,
		Filter:  filter,
		History: history,
	}, decision)
}
