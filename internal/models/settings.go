package models

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserSettings is a row of the user_settings table, keyed by user id.
type UserSettings struct {
	UserID               string          `db:"user_id"`
	InitialBalance       decimal.Decimal `db:"initial_balance"`
	OverdraftLimit       decimal.Decimal `db:"overdraft_limit"`
	NotificationsEnabled bool            `db:"notifications_enabled"`
	AuditFields
}

// FromDomainUserSettings converts domain settings to their row.
func FromDomainUserSettings(d domain.UserSettings) UserSettings {
	return UserSettings{
		UserID:               d.UserID,
		InitialBalance:       d.InitialBalance,
		OverdraftLimit:       d.OverdraftLimit,
		NotificationsEnabled: d.NotificationsEnabled,
		AuditFields: AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomain converts the row to domain settings.
func (m UserSettings) ToDomain() domain.UserSettings {
	return domain.UserSettings{
		UserID: m.UserID,
		Settings: domain.Settings{
			InitialBalance:       m.InitialBalance,
			OverdraftLimit:       m.OverdraftLimit,
			NotificationsEnabled: m.NotificationsEnabled,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}
