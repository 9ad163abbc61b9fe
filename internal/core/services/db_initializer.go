package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/platform/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultInitMaxAttempts = 3
	defaultInitBackoff     = time.Second
)

// DBInitializer guards access to the remote store until its schema has been verified once.
// Concurrent callers share a single in-flight check. Once a check succeeds the result is
// remembered for the life of the process; failures are not.
type DBInitializer struct {
	BaseService
	checker     portsrepo.SchemaChecker
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	group       singleflight.Group
	ready       atomic.Bool
}

// DBInitializerOption configures a DBInitializer.
type DBInitializerOption func(*DBInitializer)

// WithInitAttempts sets the total number of schema checks per EnsureReady call.
func WithInitAttempts(n int) DBInitializerOption {
	return func(d *DBInitializer) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithInitBackoff sets the fixed wait between failed attempts.
func WithInitBackoff(backoff time.Duration) DBInitializerOption {
	return func(d *DBInitializer) {
		if backoff >= 0 {
			d.backoff = backoff
		}
	}
}

// WithInitSleep replaces the wait function, mainly for tests.
func WithInitSleep(sleep func(ctx context.Context, d time.Duration) error) DBInitializerOption {
	return func(d *DBInitializer) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

// NewDBInitializer creates the readiness guard for the given schema checker.
func NewDBInitializer(checker portsrepo.SchemaChecker, opts ...DBInitializerOption) *DBInitializer {
	d := &DBInitializer{
		checker:     checker,
		maxAttempts: defaultInitMaxAttempts,
		backoff:     defaultInitBackoff,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsReady reports whether the schema has been verified.
func (d *DBInitializer) IsReady() bool {
	return d.ready.Load()
}

// EnsureReady verifies the schema unless a previous call already did. It returns an error
// wrapping apperrors.ErrNotReady when every attempt failed or ctx ended first.
// The shared check is detached from any single caller's cancellation.
func (d *DBInitializer) EnsureReady(ctx context.Context) error {
	if d.ready.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: database initialization interrupted: %v", apperrors.ErrNotReady, err)
	}

	detached := context.WithoutCancel(ctx)
	ch := d.group.DoChan("ensure-ready", func() (any, error) {
		if d.ready.Load() {
			return nil, nil
		}
		return nil, d.initialize(detached)
	})
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: database initialization interrupted: %w", apperrors.ErrNotReady, ctx.Err())
	case res := <-ch:
		if res.Shared {
			d.LogDebug(ctx, "Joined in-flight database initialization")
		}
		return res.Err
	}
}

func (d *DBInitializer) initialize(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		d.LogInfo(ctx, "Checking database schema", slog.Int("attempt", attempt))
		lastErr = d.checker.CheckSchema(ctx)
		if lastErr == nil {
			d.ready.Store(true)
			metrics.DatabaseReady.Set(1)
			d.LogInfo(ctx, "Database initialized")
			return nil
		}
		d.LogError(ctx, lastErr, "Database schema check failed", slog.Int("attempt", attempt))

		if attempt == d.maxAttempts {
			break
		}
		if err := d.sleep(ctx, d.backoff); err != nil {
			return fmt.Errorf("%w: database initialization interrupted: %v", apperrors.ErrNotReady, err)
		}
	}
	return fmt.Errorf("%w: database not initialized after %d attempts: %v", apperrors.ErrNotReady, d.maxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
