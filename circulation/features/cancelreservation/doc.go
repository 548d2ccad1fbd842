// Package cancelreservation implements the Cancel Reservation use case.
//
// A member leaves the queue or gives up a held copy. A held copy goes to the next member in the queue.
package cancelreservation
