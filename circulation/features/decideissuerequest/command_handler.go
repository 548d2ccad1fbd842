package decideissuerequest

import (
	"context"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

// CommandHandler orchestrates the command processing workflow: Locate -> Load -> Decide -> Apply.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	coordinator  *shell.Coordinator
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
// Without retry options a StaleState is returned to the caller after the first attempt.
func NewCommandHandler(coordinator *shell.Coordinator, opts ...Option) CommandHandler {
	handler := CommandHandler{
		coordinator:  coordinator,
		retryOptions: []shell.RetryOption{shell.WithMaxAttempts(1)},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var committed shell.Commit

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		committed, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	return shell.ResultFrom(retryMetrics, committed, err)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shell.Commit, error) {
	submitted, err := h.coordinator.Locate(ctx, core.IssueRequestSubmittedEventType, core.PredicateRequestID, command.RequestID)
	if err != nil {
		return shell.Commit{}, err
	}

	bookID := submitted.References().BookID
	filter := BuildEventFilter(bookID)

	history, err := h.coordinator.Load(ctx, filter)
	if err != nil {
		return shell.Commit{}, err
	}

	decision := Decide(history.Events, command, bookID)

	return h.coordinator.Commit(ctx, shell.OperationSet{
		Action:  commandType,
		ActorID: command.Actor.ID,
		Filter:  filter,
		History: history,
	}, decision)
}
