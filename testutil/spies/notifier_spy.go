package spies

import (
	"context"
	"sync"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
)

// NotifierSpy records notifications and optionally fails every dispatch.
type NotifierSpy struct {
	mu            sync.Mutex
	notifications []core.Notification
	err           error
}

func NewNotifierSpy() *NotifierSpy {
	return &NotifierSpy{}
}

// NewFailingNotifierSpy returns a spy which records and then fails with err.
func NewFailingNotifierSpy(err error) *NotifierSpy {
	return &NotifierSpy{err: err}
}

func (s *NotifierSpy) Notify(_ context.Context, notification core.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, notification)

	return s.err
}

func (s *NotifierSpy) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]core.Notification(nil), s.notifications...)
}

// OfKind returns the recorded notifications of one kind.
func (s *NotifierSpy) OfKind(kind core.NotificationKind) []core.Notification {
	var matching []core.Notification

	for _, n := range s.Notifications() {
		if n.Kind == kind {
			matching = append(matching, n)
		}
	}

	return matching
}
