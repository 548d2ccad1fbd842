package notify

import (
	"context"
	"time"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

// LogNotifier writes every notification as a structured log record.
// It is the default when no broker is configured.
type LogNotifier struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// NewLogNotifier creates a LogNotifier. The contextual logger may be nil.
func NewLogNotifier(logger shell.Logger, contextualLogger shell.ContextualLogger) LogNotifier {
	return LogNotifier{
		logger:           logger,
		contextualLogger: contextualLogger,
	}
}

// Notify logs the notification.
func (n LogNotifier) Notify(ctx context.Context, notification core.Notification) error {
	shell.LogInfo(ctx, n.logger, n.contextualLogger, shell.LogMsgNotificationSent,
		shell.LogAttrNotificationKind, string(notification.Kind),
		shell.LogAttrMemberID, notification.MemberID,
		shell.LogAttrBookID, notification.BookID,
		"reference_id", notification.ReferenceID,
		"deadline", notification.Deadline.Format(time.RFC3339),
	)

	return nil
}

// Noop drops every notification.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(context.Context, core.Notification) error {
	return nil
}
