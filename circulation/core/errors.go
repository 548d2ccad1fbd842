package core

import (
	"errors"
)

// Business errors. They are typed, recoverable and always returned to the caller.
var (
	ErrOutOfStock          = errors.New("no copy of the book is available")
	ErrDuplicateRequest    = errors.New("member already has an open request or an active loan for this book")
	ErrMemberLimitExceeded = errors.New("member has reached the maximum number of active loans")
	ErrAlreadyQueued       = errors.New("member already has an open reservation for this book")
	ErrStaleState          = errors.New("state changed since it was read")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotPermitted        = errors.New("actor is not permitted to perform this action")
	ErrBookDeactivated     = errors.New("book is deactivated")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvariantViolation  = errors.New("circulation invariant violated")
)

// IsBusinessError reports whether err is one of the recoverable business errors above.
func IsBusinessError(err error) bool {
	for _, businessErr := range []error{
		ErrOutOfStock,
		ErrDuplicateRequest,
		ErrMemberLimitExceeded,
		ErrAlreadyQueued,
		ErrNotFound,
		ErrInvalidTransition,
		ErrNotPermitted,
		ErrBookDeactivated,
		ErrInvalidInput,
	} {
		if errors.Is(err, businessErr) {
			return true
		}
	}

	return false
}
