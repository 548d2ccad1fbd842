// Package returnloan implements the Return Loan use case.
//
// Staff take a copy back. The fine is settled at the moment of return from the due date and the
// library policy. The freed copy goes to the head of the reservation queue of the book, if anybody
// is waiting, otherwise it becomes available again.
package returnloan
