package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

// Response is the envelope of every API response.
type Response struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error describes why an operation failed.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CommandResult is the data of a command response.
// ID is the id of the created entity when the server generated it.
type CommandResult struct {
	ID            string            `json:"id,omitempty"`
	Idempotent    bool              `json:"idempotent"`
	Events        core.DomainEvents `json:"events"`
	RetryAttempts int               `json:"retry_attempts"`
}

func commandResultFrom(id string, result shell.HandlerResult) CommandResult {
	events := result.Events
	if events == nil {
		events = core.DomainEvents{}
	}

	return CommandResult{
		ID:            id,
		Idempotent:    result.Idempotent,
		Events:        events,
		RetryAttempts: result.RetryAttempts,
	}
}

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{core.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{core.ErrNotPermitted, fiber.StatusForbidden, "NOT_PERMITTED"},
	{core.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{core.ErrMemberLimitExceeded, fiber.StatusUnprocessableEntity, "MEMBER_LIMIT_EXCEEDED"},
	{core.ErrOutOfStock, fiber.StatusConflict, "OUT_OF_STOCK"},
	{core.ErrDuplicateRequest, fiber.StatusConflict, "DUPLICATE_REQUEST"},
	{core.ErrAlreadyQueued, fiber.StatusConflict, "ALREADY_QUEUED"},
	{core.ErrStaleState, fiber.StatusConflict, "STALE_STATE"},
	{core.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{core.ErrBookDeactivated, fiber.StatusConflict, "BOOK_DEACTIVATED"},
	{core.ErrInvariantViolation, fiber.StatusInternalServerError, "INVARIANT_VIOLATION"},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout, "TIMEOUT"},
}

// StatusFor maps an error of a handler onto an HTTP status and an error code.
func StatusFor(err error) (int, string) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, "HTTP_ERROR"
	}

	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: requestID(c),
	})
}

func failure(c *fiber.Ctx, err error, data any) error {
	status, code := StatusFor(err)

	return c.Status(status).JSON(Response{
		Success: false,
		Message: code,
		Data:    data,
		Error: &Error{
			Code:    code,
			Message: err.Error(),
		},
		Timestamp: time.Now().UTC(),
		RequestID: requestID(c),
	})
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// errorHandler answers errors returned by routes and middleware, e.g. 404 for unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	return failure(c, err, nil)
}
