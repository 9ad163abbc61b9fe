// Package localcache keeps the per-user settings blob on a local filesystem.
package localcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/spf13/afero"
)

// SettingsKey is the file name of the cached settings blob inside a user's namespace.
const SettingsKey = "financeSettings.json"

// anonymousNamespace holds settings used before a user is known.
const anonymousNamespace = "_anonymous"

// SettingsCache stores settings as JSON at <dir>/<userID>/financeSettings.json.
type SettingsCache struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

var _ portsrepo.SettingsCache = (*SettingsCache)(nil)

// NewSettingsCache creates a cache rooted at dir on fs.
func NewSettingsCache(fs afero.Fs, dir string) *SettingsCache {
	return &SettingsCache{fs: fs, dir: dir}
}

func (c *SettingsCache) path(userID string) string {
	if userID == "" {
		userID = anonymousNamespace
	}
	return filepath.Join(c.dir, filepath.Base(userID), SettingsKey)
}

func (c *SettingsCache) Load(ctx context.Context, userID string) (*domain.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := afero.ReadFile(c.fs, c.path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings cache: %w", err)
	}

	var s domain.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings cache: %w", err)
	}
	return &s, nil
}

func (c *SettingsCache) Save(ctx context.Context, userID string, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.path(userID)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create settings cache directory: %w", err)
	}
	if err := afero.WriteFile(c.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write settings cache: %w", err)
	}
	return nil
}
