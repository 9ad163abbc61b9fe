package domain

import (
	"fmt"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Default values for a user that has never saved settings.
var (
	DefaultInitialBalance       = decimal.Zero
	DefaultOverdraftLimit       = decimal.NewFromInt(1000)
	DefaultNotificationsEnabled = true
)

// Settings holds the per-user balance configuration.
type Settings struct {
	InitialBalance       decimal.Decimal `json:"initialBalance"`
	OverdraftLimit       decimal.Decimal `json:"overdraftLimit"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
}

// DefaultSettings returns the settings used when neither the cache nor the remote store has any.
func DefaultSettings() Settings {
	return Settings{
		InitialBalance:       DefaultInitialBalance,
		OverdraftLimit:       DefaultOverdraftLimit,
		NotificationsEnabled: DefaultNotificationsEnabled,
	}
}

// Validate checks that the overdraft limit is not negative.
func (s Settings) Validate() error {
	if s.OverdraftLimit.IsNegative() {
		return fmt.Errorf("%w: overdraft limit cannot be negative", apperrors.ErrValidation)
	}
	if !HasMoneyScale(s.OverdraftLimit) || !HasMoneyScale(s.InitialBalance) {
		return fmt.Errorf("%w: amounts cannot have more than %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	return nil
}

// UserSettings is the remote-store row for a user's settings.
type UserSettings struct {
	UserID string `json:"userID"`
	Settings
	AuditFields
}

// SettingsSaveResult reports where a settings save landed.
type SettingsSaveResult struct {
	Settings     Settings `json:"settings"`
	RemoteSynced bool     `json:"remoteSynced"`
}
