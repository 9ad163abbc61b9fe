package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// Notifier receives user-visible notifications produced by finance operations.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotificationPublisher forwards notifications to an external channel.
type NotificationPublisher interface {
	Publish(ctx context.Context, n domain.Notification) error
	Close() error
}
