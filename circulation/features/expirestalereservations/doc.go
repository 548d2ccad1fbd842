// Package expirestalereservations implements the Expire Stale Reservations sweep.
//
// Holds which were not picked up within the hold window of the library expire. Each freed copy goes to
// the next member in the queue. The sweep commits one operation set per book, so a conflict on one book
// never blocks the others.
package expirestalereservations
