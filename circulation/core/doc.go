// Package core contains the domain of library circulation:
// books in circulation, issue requests, loans and reservation queues.
//
// Everything that happens is a domain event (IssueRequestSubmitted, LoanStarted,
// ReservationActivated, ...). State is never stored, it is projected from the
// events of a dynamic stream. ProjectBook builds the inventory ledger of one book,
// ProjectMemberLoans the active loans of one member.
//
// The package is pure: no I/O, no clock. Time always comes in as a parameter.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
