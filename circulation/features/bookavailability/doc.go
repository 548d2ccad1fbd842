// Package bookavailability implements the Book Availability query.
//
// It returns the copy counts, the derived state and the waiting line of one book.
package bookavailability
