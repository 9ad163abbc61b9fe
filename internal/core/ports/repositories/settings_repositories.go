package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// SettingsRepository persists the remote user_settings row.
type SettingsRepository interface {
	// FindSettings returns apperrors.ErrNotFound when the user has no row yet.
	FindSettings(ctx context.Context, userID string) (*domain.UserSettings, error)

	// UpsertSettings creates or replaces the row keyed by user id.
	UpsertSettings(ctx context.Context, settings domain.UserSettings) error
}

// SettingsCache is the local durable copy of a user's settings, read before any remote round trip.
type SettingsCache interface {
	// Load returns (nil, nil) when nothing has been cached yet.
	Load(ctx context.Context, userID string) (*domain.Settings, error)

	// Save overwrites the cached blob.
	Save(ctx context.Context, userID string, settings domain.Settings) error
}
