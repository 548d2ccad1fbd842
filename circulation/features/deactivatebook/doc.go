// Package deactivatebook implements the Deactivate Book use case.
//
// A deactivated book stays in the event history but accepts no new issue requests or reservations.
// Deactivation is refused while any loan, hold, queued reservation or open issue request still refers to the book.
package deactivatebook
