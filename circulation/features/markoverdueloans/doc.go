// Package markoverdueloans implements the Mark Overdue Loans sweep.
//
// Every active loan past its due date is marked overdue exactly once and the member is notified.
// Fines are not stored here, they accrue until the loan is returned.
package markoverdueloans
