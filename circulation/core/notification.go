package core

import (
	"time"
)

// NotificationKind names what a member is told about.
type NotificationKind string

const (
	NotificationReservationReady NotificationKind = "reservation_ready"
	NotificationLoanOverdue      NotificationKind = "loan_overdue"
)

// Notification is a fire-and-forget message for a member, derived from a committed event.
type Notification struct {
	Kind        NotificationKind
	MemberID    MemberIDString
	BookID      BookIDString
	LibraryID   LibraryIDString
	ReferenceID string
	Deadline    time.Time
	OccurredAt  time.Time
}

// NotificationFor derives the notification of an event, if the event has one.
func NotificationFor(event DomainEvent) (Notification, bool) {
	switch e := event.(type) {
	case ReservationActivated:
		return Notification{
			Kind:        NotificationReservationReady,
			MemberID:    e.MemberID,
			BookID:      e.BookID,
			LibraryID:   e.LibraryID,
			ReferenceID: e.ReservationID,
			Deadline:    e.HoldExpiresAt,
			OccurredAt:  e.OccurredAt,
		}, true

	case LoanMarkedOverdue:
		return Notification{
			Kind:        NotificationLoanOverdue,
			MemberID:    e.MemberID,
			BookID:      e.BookID,
			LibraryID:   e.LibraryID,
			ReferenceID: e.LoanID,
			Deadline:    e.DueAt,
			OccurredAt:  e.OccurredAt,
		}, true

	default:
		return Notification{}, false
	}
}
