package dto

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaveSettingsRequest replaces the user's settings.
// A missing notificationsEnabled keeps the default of true.
type SaveSettingsRequest struct {
	InitialBalance       decimal.Decimal `json:"initialBalance"`
	OverdraftLimit       decimal.Decimal `json:"overdraftLimit" binding:"decimal_gte0"`
	NotificationsEnabled *bool           `json:"notificationsEnabled"`
}

// ToDomain converts the request into domain settings.
func (r SaveSettingsRequest) ToDomain() domain.Settings {
	s := domain.Settings{
		InitialBalance:       r.InitialBalance,
		OverdraftLimit:       r.OverdraftLimit,
		NotificationsEnabled: domain.DefaultNotificationsEnabled,
	}
	if r.NotificationsEnabled != nil {
		s.NotificationsEnabled = *r.NotificationsEnabled
	}
	return s
}

// NotificationsResponse carries the notifications drained for the user.
type NotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}
