package core

import (
	"fmt"
)

// LibraryPolicy holds the circulation rules of one library. It is read-only to the engine.
type LibraryPolicy struct {
	LibraryID         LibraryIDString
	LoanDurationDays  int
	FinePerDay        Money
	MaxBooksPerMember int
	HoldWindowDays    int
}

// DefaultPolicy is used for libraries without an explicit policy.
func DefaultPolicy(libraryID LibraryIDString) LibraryPolicy {
	return LibraryPolicy{
		LibraryID:         libraryID,
		LoanDurationDays:  14,
		FinePerDay:        50,
		MaxBooksPerMember: 5,
		HoldWindowDays:    3,
	}
}

// Validate rejects policies the calculator cannot work with.
func (p LibraryPolicy) Validate() error {
	switch {
	case p.LoanDurationDays <= 0:
		return fmt.Errorf("%w: loan duration days must be positive, got %d", ErrInvalidInput, p.LoanDurationDays)
	case p.FinePerDay < 0:
		return fmt.Errorf("%w: fine per day must not be negative, got %s", ErrInvalidInput, p.FinePerDay)
	case p.MaxBooksPerMember <= 0:
		return fmt.Errorf("%w: max books per member must be positive, got %d", ErrInvalidInput, p.MaxBooksPerMember)
	case p.HoldWindowDays <= 0:
		return fmt.Errorf("%w: hold window days must be positive, got %d", ErrInvalidInput, p.HoldWindowDays)
	}

	return nil
}
