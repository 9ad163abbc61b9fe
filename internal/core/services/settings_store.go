package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/metrics"
)

// SettingsStore serves a user's settings from the local cache and mirrors them to the
// remote store when the user is signed in and the schema is ready.
type SettingsStore struct {
	BaseService
	userID    string
	cache     portsrepo.SettingsCache
	repo      portsrepo.SettingsRepository
	readiness portssvc.ReadinessSvc
	notifier  portssvc.Notifier

	mu      sync.RWMutex
	current domain.Settings
}

// NewSettingsStore creates a settings store holding the defaults until Load is called.
// repo and notifier may be nil.
func NewSettingsStore(userID string, cache portsrepo.SettingsCache, repo portsrepo.SettingsRepository, readiness portssvc.ReadinessSvc, notifier portssvc.Notifier) *SettingsStore {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &SettingsStore{
		userID:    userID,
		cache:     cache,
		repo:      repo,
		readiness: readiness,
		notifier:  notifier,
		current:   domain.DefaultSettings(),
	}
}

// Current returns the settings last loaded or saved.
func (s *SettingsStore) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// NotificationsEnabled reports the current notifications preference.
func (s *SettingsStore) NotificationsEnabled() bool {
	return s.Current().NotificationsEnabled
}

func (s *SettingsStore) remoteAvailable() bool {
	return s.userID != "" && s.repo != nil && s.readiness != nil && s.readiness.IsReady()
}

// Load reads the cache, seeding it with the defaults when empty. When the remote store is
// available its row wins and is written back to the cache. A missing remote row is created
// from the local values.
func (s *SettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	local, err := s.cache.Load(ctx, s.userID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("loading cached settings: %w", err)
	}
	if local == nil {
		defaults := domain.DefaultSettings()
		if err := s.cache.Save(ctx, s.userID, defaults); err != nil {
			return domain.Settings{}, fmt.Errorf("seeding cached settings: %w", err)
		}
		local = &defaults
	}
	settings := *local

	if s.remoteAvailable() {
		settings = s.reconcile(ctx, settings)
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return settings, nil
}

func (s *SettingsStore) reconcile(ctx context.Context, local domain.Settings) domain.Settings {
	row, err := s.repo.FindSettings(ctx, s.userID)
	switch {
	case err == nil:
		if err := s.cache.Save(ctx, s.userID, row.Settings); err != nil {
			s.LogError(ctx, err, "Failed to cache remote settings", slog.String("user_id", s.userID))
		}
		return row.Settings
	case errors.Is(err, apperrors.ErrNotFound):
		now := s.CurrentTime()
		created := domain.UserSettings{
			UserID:      s.userID,
			Settings:    local,
			AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		if err := s.repo.UpsertSettings(ctx, created); err != nil {
			s.LogError(ctx, err, "Failed to create remote settings", slog.String("user_id", s.userID))
			metrics.RemoteFailures.WithLabelValues("settings_create").Inc()
		}
		return local
	default:
		s.LogError(ctx, err, "Failed to load remote settings, using cached values", slog.String("user_id", s.userID))
		metrics.RemoteFailures.WithLabelValues("settings_load").Inc()
		return local
	}
}

// Save validates and caches the settings, then upserts them remotely when possible.
// A remote failure is reported in the result, not as an error.
func (s *SettingsStore) Save(ctx context.Context, settings domain.Settings) (*domain.SettingsSaveResult, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.cache.Save(ctx, s.userID, settings); err != nil {
		return nil, fmt.Errorf("caching settings: %w", err)
	}
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	result := &domain.SettingsSaveResult{Settings: settings}
	if !s.remoteAvailable() {
		s.LogDebug(ctx, "Settings saved locally only", slog.String("user_id", s.userID))
		return result, nil
	}

	now := s.CurrentTime()
	row := domain.UserSettings{
		UserID:      s.userID,
		Settings:    settings,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.repo.UpsertSettings(ctx, row); err != nil {
		s.LogError(ctx, err, "Failed to save settings remotely", slog.String("user_id", s.userID))
		metrics.RemoteFailures.WithLabelValues("settings_save").Inc()
		s.notifier.Notify(ctx, errorNotification("Error saving settings",
			"Your settings were saved on this device, but not on the server."))
		return result, nil
	}

	result.RemoteSynced = true
	s.LogInfo(ctx, "Settings saved", slog.String("user_id", s.userID))
	return result, nil
}
