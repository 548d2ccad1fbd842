// Package enqueuereservation implements the Enqueue Reservation use case.
//
// A member takes a place in the waiting line of a book. The queue is strictly FIFO by enqueue time,
// ties are broken by the lower reservation id. If a copy is free and nobody waits, the new reservation
// is activated right away and the copy is held for the member.
package enqueuereservation
