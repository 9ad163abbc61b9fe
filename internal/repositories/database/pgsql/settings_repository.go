package pgsql

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettingsRepository stores one user_settings row per user.
type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(pool *pgxpool.Pool) portsrepo.SettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) FindSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	query := `
		SELECT user_id, initial_balance, overdraft_limit, notifications_enabled, created_at, last_updated_at
		FROM user_settings
		WHERE user_id = $1;
	`
	var m models.UserSettings
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.InitialBalance,
		&m.OverdraftLimit,
		&m.NotificationsEnabled,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, r.mapError(err, "find user settings")
	}
	settings := m.ToDomain()
	return &settings, nil
}

func (r *PgxSettingsRepository) UpsertSettings(ctx context.Context, settings domain.UserSettings) error {
	m := models.FromDomainUserSettings(settings)
	query := `
		INSERT INTO user_settings (user_id, initial_balance, overdraft_limit, notifications_enabled, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			initial_balance = EXCLUDED.initial_balance,
			overdraft_limit = EXCLUDED.overdraft_limit,
			notifications_enabled = EXCLUDED.notifications_enabled,
			last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.InitialBalance,
		m.OverdraftLimit,
		m.NotificationsEnabled,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return r.mapError(err, "upsert user settings")
}
