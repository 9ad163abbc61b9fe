package domain

import "time"

// NotificationLevel distinguishes confirmations from failures.
type NotificationLevel string

const (
	NotificationInfo  NotificationLevel = "info"
	NotificationError NotificationLevel = "error"
)

// Notification is a user-visible message produced by a finance operation.
type Notification struct {
	UserID    string            `json:"userID"`
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}
