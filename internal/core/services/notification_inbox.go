package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

const defaultInboxCapacity = 50

// NotificationInbox keeps a user's pending notifications until the client drains them.
// Only the most recent notifications are kept. When a publisher is configured and the
// enabled func reports true, every notification is also published.
type NotificationInbox struct {
	BaseService
	userID    string
	capacity  int
	publisher portssvc.NotificationPublisher
	enabled   func() bool

	mu    sync.Mutex
	items []domain.Notification
}

// NewNotificationInbox creates an inbox for one user. publisher and enabled may be nil.
func NewNotificationInbox(userID string, publisher portssvc.NotificationPublisher, enabled func() bool) *NotificationInbox {
	return &NotificationInbox{
		userID:    userID,
		capacity:  defaultInboxCapacity,
		publisher: publisher,
		enabled:   enabled,
	}
}

// Notify records n, stamping the owner and creation time when missing.
func (i *NotificationInbox) Notify(ctx context.Context, n domain.Notification) {
	if n.UserID == "" {
		n.UserID = i.userID
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = i.CurrentTime()
	}

	i.mu.Lock()
	i.items = append(i.items, n)
	if overflow := len(i.items) - i.capacity; overflow > 0 {
		i.items = append([]domain.Notification(nil), i.items[overflow:]...)
	}
	i.mu.Unlock()

	if i.publisher == nil || (i.enabled != nil && !i.enabled()) {
		return
	}
	if err := i.publisher.Publish(ctx, n); err != nil {
		i.LogError(ctx, err, "Failed to publish notification", slog.String("title", n.Title))
	}
}

// Drain returns the pending notifications oldest first and empties the inbox.
func (i *NotificationInbox) Drain() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.items
	i.items = nil
	if out == nil {
		return []domain.Notification{}
	}
	return out
}

func infoNotification(title, message string) domain.Notification {
	return domain.Notification{Level: domain.NotificationInfo, Title: title, Message: message}
}

func errorNotification(title, message string) domain.Notification {
	return domain.Notification{Level: domain.NotificationError, Title: title, Message: message}
}

// discardNotifier drops every notification.
type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, domain.Notification) {}

var (
	_ portssvc.Notifier = (*NotificationInbox)(nil)
	_ portssvc.Notifier = discardNotifier{}
)
