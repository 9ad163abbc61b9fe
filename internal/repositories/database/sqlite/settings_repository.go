package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/shopspring/decimal"
)

// SettingsRepository stores one user_settings row per user.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a settings repository on db.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

var _ portsrepo.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) FindSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	query := `
		SELECT user_id, initial_balance, overdraft_limit, notifications_enabled, created_at, last_updated_at
		FROM user_settings
		WHERE user_id = ?;
	`
	var (
		m                        models.UserSettings
		initial, limit           string
		createdAt, lastUpdatedAt string
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&m.UserID,
		&initial,
		&limit,
		&m.NotificationsEnabled,
		&createdAt,
		&lastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find user settings: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find user settings: %w", err)
	}

	if m.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return nil, fmt.Errorf("parse initial balance %q: %w", initial, err)
	}
	if m.OverdraftLimit, err = decimal.NewFromString(limit); err != nil {
		return nil, fmt.Errorf("parse overdraft limit %q: %w", limit, err)
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if m.LastUpdatedAt, err = parseTimestamp(lastUpdatedAt); err != nil {
		return nil, fmt.Errorf("parse last_updated_at %q: %w", lastUpdatedAt, err)
	}

	settings := m.ToDomain()
	return &settings, nil
}

func (r *SettingsRepository) UpsertSettings(ctx context.Context, settings domain.UserSettings) error {
	m := models.FromDomainUserSettings(settings)
	query := `
		INSERT INTO user_settings (user_id, initial_balance, overdraft_limit, notifications_enabled, created_at, last_updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			initial_balance = excluded.initial_balance,
			overdraft_limit = excluded.overdraft_limit,
			notifications_enabled = excluded.notifications_enabled,
			last_updated_at = excluded.last_updated_at;
	`
	_, err := r.db.ExecContext(ctx, query,
		m.UserID,
		m.InitialBalance.String(),
		m.OverdraftLimit.String(),
		m.NotificationsEnabled,
		formatTimestamp(m.CreatedAt),
		formatTimestamp(m.LastUpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert user settings: %w", err)
	}
	return nil
}
