package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/metrics"
	"github.com/SscSPs/finance_tracker/internal/utils/finance"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSessionCacheSize = 1000
	defaultSessionTTL       = 30 * time.Minute
)

// financeSession is the in-memory state of one signed-in user.
// Transactions are fetched on first use and again after a failed fetch.
type financeSession struct {
	settings     *SettingsStore
	transactions *TransactionStore
	inbox        *NotificationInbox
	needsFetch   atomic.Bool
}

type financeService struct {
	BaseService
	transactionRepo        portsrepo.TransactionRepositoryFacade
	settingsRepo           portsrepo.SettingsRepository
	settingsCache          portsrepo.SettingsCache
	readiness              portssvc.ReadinessSvc
	publisher              portssvc.NotificationPublisher
	policy                 OverdraftPolicy
	reconcileFailedUpdates bool
	cacheSize              int
	sessionTTL             time.Duration
	newID                  func() string

	sessions *expirable.LRU[string, *financeSession]
	group    singleflight.Group
}

// FinanceServiceOption configures the finance service.
type FinanceServiceOption func(*financeService)

// WithOverdraftPolicy sets the policy applied to new transactions.
func WithOverdraftPolicy(policy OverdraftPolicy) FinanceServiceOption {
	return func(s *financeService) {
		s.policy = policy
	}
}

// WithNotificationPublisher forwards notifications of users who enabled them.
func WithNotificationPublisher(publisher portssvc.NotificationPublisher) FinanceServiceOption {
	return func(s *financeService) {
		s.publisher = publisher
	}
}

// WithFailedUpdateReconciliation re-fetches a user's transactions after a failed update.
func WithFailedUpdateReconciliation(enabled bool) FinanceServiceOption {
	return func(s *financeService) {
		s.reconcileFailedUpdates = enabled
	}
}

// WithSessionCache sets the maximum number of cached user sessions and their idle lifetime.
func WithSessionCache(size int, ttl time.Duration) FinanceServiceOption {
	return func(s *financeService) {
		if size > 0 {
			s.cacheSize = size
		}
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock replaces the wall clock used for dates and summaries.
func WithClock(now func() time.Time) FinanceServiceOption {
	return func(s *financeService) {
		s.Now = now
	}
}

// WithTransactionIDGenerator replaces the UUID generator of new transactions.
func WithTransactionIDGenerator(gen func() string) FinanceServiceOption {
	return func(s *financeService) {
		s.newID = gen
	}
}

// NewFinanceService creates the user-scoped finance facade.
func NewFinanceService(repos portsrepo.RepositoryProvider, readiness portssvc.ReadinessSvc, opts ...FinanceServiceOption) portssvc.FinanceSvcFacade {
	s := &financeService{
		transactionRepo: repos.TransactionRepo,
		settingsRepo:    repos.SettingsRepo,
		settingsCache:   repos.SettingsCache,
		readiness:       readiness,
		cacheSize:       defaultSessionCacheSize,
		sessionTTL:      defaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = expirable.NewLRU[string, *financeSession](s.cacheSize, func(userID string, _ *financeSession) {
		slog.Debug("Finance session evicted", slog.String("user_id", userID))
	}, s.sessionTTL)
	return s
}

// session returns the cached session of userID, loading its settings on first use.
// A session whose settings could not be loaded is not cached.
func (s *financeService) session(ctx context.Context, userID string) (*financeSession, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrUnauthenticated)
	}
	if sess, ok := s.sessions.Get(userID); ok {
		return sess, nil
	}

	v, err := s.shared(ctx, "session:"+userID, func(ctx context.Context) (any, error) {
		if sess, ok := s.sessions.Get(userID); ok {
			return sess, nil
		}
		sess, err := s.openSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.sessions.Add(userID, sess)
		metrics.ActiveSessions.Set(float64(s.sessions.Len()))
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*financeSession), nil
}

// loadedSession returns the session of userID with its transactions fetched.
func (s *financeService) loadedSession(ctx context.Context, userID string) (*financeSession, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sess.needsFetch.Load() {
		return sess, nil
	}
	if _, err := s.shared(ctx, "fetch:"+userID, func(ctx context.Context) (any, error) {
		if !sess.needsFetch.Load() {
			return nil, nil
		}
		return s.fetch(ctx, sess)
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// fetch reloads the session's transactions. A failure leaves an empty list and marks the
// session for another attempt on its next use.
func (s *financeService) fetch(ctx context.Context, sess *financeSession) ([]domain.Transaction, error) {
	rows, err := sess.transactions.Fetch(ctx)
	sess.needsFetch.Store(err != nil)
	return rows, err
}

// shared runs fn once for concurrent callers with the same key. fn runs detached from the
// caller's cancellation; each caller stops waiting when its own context is done.
func (s *financeService) shared(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *financeService) openSession(ctx context.Context, userID string) (*financeSession, error) {
	sess := &financeSession{}
	sess.inbox = NewNotificationInbox(userID, s.publisher, func() bool {
		return sess.settings != nil && sess.settings.NotificationsEnabled()
	})
	sess.inbox.Now = s.Now

	sess.settings = NewSettingsStore(userID, s.settingsCache, s.settingsRepo, s.readiness, sess.inbox)
	sess.settings.Now = s.Now

	storeOpts := []TransactionStoreOption{
		WithStoreNotifier(sess.inbox),
		WithReconcileFailedUpdates(s.reconcileFailedUpdates),
	}
	if s.newID != nil {
		storeOpts = append(storeOpts, WithIDGenerator(s.newID))
	}
	sess.transactions = NewTransactionStore(userID, s.transactionRepo, s.readiness, storeOpts...)
	sess.transactions.Now = s.Now
	sess.needsFetch.Store(true)

	if _, err := sess.settings.Load(ctx); err != nil {
		s.LogError(ctx, err, "Failed to load settings", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "Finance session opened", slog.String("user_id", userID))
	return sess, nil
}

func (s *financeService) GetSummary(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := finance.BuildSummary(sess.settings.Current(), sess.transactions.Transactions(), s.CurrentTime())
	return &summary, nil
}

func (s *financeService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	all := sess.transactions.Transactions()
	out := make([]domain.Transaction, 0, len(all))
	for _, txn := range all {
		if filter.Matches(txn) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *financeService) GetTransaction(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.transactions.Get(transactionID)
}

func (s *financeService) RefreshTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, sess)
}

// AddTransaction refuses new transactions while the user is over the overdraft limit.
func (s *financeService) AddTransaction(ctx context.Context, userID string, input domain.NewTransactionInput) (*domain.Transaction, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := sess.settings.Current()
	balance := finance.CalculateCurrentBalance(settings.InitialBalance, sess.transactions.Transactions())
	status := s.policy.Evaluate(balance, settings.OverdraftLimit)
	if err := s.policy.CheckNewTransaction(status, input.Type); err != nil {
		metrics.OverLimitBlocked.WithLabelValues(string(input.Type)).Inc()
		s.LogInfo(ctx, "Transaction blocked by overdraft limit",
			slog.String("user_id", userID),
			slog.String("balance", balance.String()),
			slog.String("limit", settings.OverdraftLimit.String()))
		sess.inbox.Notify(ctx, errorNotification("Overdraft limit exceeded",
			"You have exceeded your overdraft limit. New transactions are blocked."))
		return nil, err
	}

	return sess.transactions.Add(ctx, input)
}

func (s *financeService) UpdateTransaction(ctx context.Context, userID string, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.transactions.Update(ctx, transactionID, patch)
}

func (s *financeService) MarkAsPaid(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := sess.transactions.Get(transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.StatusPaid {
		return txn, nil
	}
	paid := domain.StatusPaid
	return sess.transactions.Update(ctx, transactionID, domain.TransactionPatch{Status: &paid})
}

func (s *financeService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return err
	}
	return sess.transactions.Delete(ctx, transactionID)
}

func (s *financeService) ClearAllTransactions(ctx context.Context, userID string) error {
	sess, err := s.loadedSession(ctx, userID)
	if err != nil {
		return err
	}
	return sess.transactions.ClearAll(ctx)
}

func (s *financeService) GetSettings(ctx context.Context, userID string) (*domain.Settings, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings := sess.settings.Current()
	return &settings, nil
}

func (s *financeService) SaveSettings(ctx context.Context, userID string, settings domain.Settings) (*domain.SettingsSaveResult, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.settings.Save(ctx, settings)
}

// DrainNotifications never opens a session; a user without one has nothing pending.
func (s *financeService) DrainNotifications(_ context.Context, userID string) []domain.Notification {
	sess, ok := s.sessions.Get(userID)
	if !ok {
		return []domain.Notification{}
	}
	return sess.inbox.Drain()
}
