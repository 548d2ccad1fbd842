package core

import (
	"errors"
	"fmt"
)

// MemberLoans are the loans of one member across all books, projected from its loan events.
type MemberLoans struct {
	MemberID MemberIDString

	loans     map[LoanIDString]*Loan
	loanOrder []LoanIDString
	reusedIDs []LoanIDString
}

// ProjectMemberLoans replays the history and returns the loans of the member.
func ProjectMemberLoans(history DomainEvents, memberID MemberIDString) *MemberLoans {
	m := &MemberLoans{
		MemberID: memberID,
		loans:    make(map[LoanIDString]*Loan),
	}

	for _, event := range history {
		m.Apply(event)
	}

	return m
}

// Apply evolves the projection by one event.
func (m *MemberLoans) Apply(event DomainEvent) {
	if event.References().MemberID != m.MemberID {
		return
	}

	switch e := event.(type) {
	case LoanStarted:
		if _, ok := m.loans[e.LoanID]; ok {
			m.reusedIDs = append(m.reusedIDs, e.LoanID)
			return
		}

		m.loans[e.LoanID] = &Loan{
			LoanID:        e.LoanID,
			RequestID:     e.RequestID,
			BookID:        e.BookID,
			LibraryID:     e.LibraryID,
			MemberID:      e.MemberID,
			ReservationID: e.ReservationID,
			IssuedAt:      e.IssuedAt,
			DueAt:         e.DueAt,
		}
		m.loanOrder = append(m.loanOrder, e.LoanID)

	case LoanReturned:
		if l, ok := m.loans[e.LoanID]; ok {
			l.Returned = true
			l.ReturnedAt = e.ReturnedAt
		}

	case LoanMarkedOverdue:
		if l, ok := m.loans[e.LoanID]; ok {
			l.MarkedOverdue = true
		}
	}
}

// Active returns the loans which were not returned yet, in issue order.
func (m *MemberLoans) Active() []Loan {
	var loans []Loan

	for _, id := range m.loanOrder {
		if l := m.loans[id]; !l.Returned {
			loans = append(loans, *l)
		}
	}

	return loans
}

// ActiveInLibrary counts the active loans of the member in one library.
func (m *MemberLoans) ActiveInLibrary(libraryID LibraryIDString) int {
	count := 0

	for _, l := range m.Active() {
		if l.LibraryID == libraryID {
			count++
		}
	}

	return count
}

// CheckLimit wraps ErrInvariantViolation if the member holds more loans than the policy allows
// or a loan id was started twice.
func (m *MemberLoans) CheckLimit(policy LibraryPolicy) error {
	var errs []error

	if count := m.ActiveInLibrary(policy.LibraryID); count > policy.MaxBooksPerMember {
		errs = append(errs, fmt.Errorf("%w: member %s has %d active loans in library %s, max is %d",
			ErrInvariantViolation, m.MemberID, count, policy.LibraryID, policy.MaxBooksPerMember))
	}

	for _, loanID := range m.reusedIDs {
		errs = append(errs, fmt.Errorf("%w: loan %s of member %s was started twice", ErrInvariantViolation, loanID, m.MemberID))
	}

	return errors.Join(errs...)
}
