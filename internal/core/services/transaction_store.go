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
	"github.com/google/uuid"
)

// TransactionStore holds one user's transaction list in memory and keeps it in step with
// the remote store using optimistic updates: local state changes first, then the remote
// call is made, and failures are reconciled per operation.
//
// The mutex protects only the local list. It is never held during remote calls, so two
// concurrent operations may interleave.
type TransactionStore struct {
	BaseService
	userID                 string
	repo                   portsrepo.TransactionRepositoryFacade
	readiness              portssvc.ReadinessSvc
	notifier               portssvc.Notifier
	newID                  func() string
	reconcileFailedUpdates bool

	mu           sync.RWMutex
	transactions []domain.Transaction
	loading      bool
}

// TransactionStoreOption configures a TransactionStore.
type TransactionStoreOption func(*TransactionStore)

// WithStoreNotifier sets where user-visible notifications go.
func WithStoreNotifier(n portssvc.Notifier) TransactionStoreOption {
	return func(s *TransactionStore) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(gen func() string) TransactionStoreOption {
	return func(s *TransactionStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithReconcileFailedUpdates makes a failed update re-fetch the remote list instead of
// keeping the locally merged values.
func WithReconcileFailedUpdates(enabled bool) TransactionStoreOption {
	return func(s *TransactionStore) {
		s.reconcileFailedUpdates = enabled
	}
}

// NewTransactionStore creates an empty store for userID. Call Fetch to load it.
func NewTransactionStore(userID string, repo portsrepo.TransactionRepositoryFacade, readiness portssvc.ReadinessSvc, opts ...TransactionStoreOption) *TransactionStore {
	s := &TransactionStore{
		userID:       userID,
		repo:         repo,
		readiness:    readiness,
		notifier:     discardNotifier{},
		newID:        uuid.NewString,
		transactions: []domain.Transaction{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transactions returns a copy of the local list.
func (s *TransactionStore) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTransactions(s.transactions)
}

// Get returns a copy of one transaction from the local list.
func (s *TransactionStore) Get(transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.transactions {
		if txn.ID == transactionID {
			c := txn.Clone()
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
}

// IsLoading reports whether a fetch is in progress.
func (s *TransactionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Fetch replaces the local list with the owner's remote rows, newest created first.
// Without a user there is nothing to fetch and the list is emptied. On failure the list
// is emptied as well.
func (s *TransactionStore) Fetch(ctx context.Context) ([]domain.Transaction, error) {
	if s.userID == "" {
		s.replace([]domain.Transaction{})
		return []domain.Transaction{}, nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.readiness.EnsureReady(ctx); err != nil {
		return nil, s.fetchFailed(ctx, err)
	}

	rows, err := s.repo.ListTransactions(ctx, s.userID)
	if err != nil {
		return nil, s.fetchFailed(ctx, err)
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}

	s.replace(rows)
	s.LogDebug(ctx, "Transactions fetched", slog.String("user_id", s.userID), slog.Int("count", len(rows)))
	return cloneTransactions(rows), nil
}

func (s *TransactionStore) fetchFailed(ctx context.Context, err error) error {
	s.LogError(ctx, err, "Failed to fetch transactions", slog.String("user_id", s.userID))
	metrics.RemoteFailures.WithLabelValues("fetch").Inc()
	s.replace([]domain.Transaction{})
	s.notifier.Notify(ctx, errorNotification("Error loading transactions",
		"Your transactions could not be loaded. Please try again."))
	return remoteError("fetch transactions", err)
}

// Add validates the input, prepends the new transaction locally and persists it.
// After a successful insert the list is re-fetched. After a failed insert the local
// entry stays in place until the next fetch.
func (s *TransactionStore) Add(ctx context.Context, input domain.NewTransactionInput) (*domain.Transaction, error) {
	if s.userID == "" {
		s.notifier.Notify(ctx, errorNotification("Error adding transaction",
			"You need to be signed in to add transactions."))
		return nil, fmt.Errorf("%w: sign in to add transactions", apperrors.ErrUnauthenticated)
	}

	txn := input.ToTransaction(s.newID(), s.userID, s.CurrentTime())
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.readiness.EnsureReady(ctx); err != nil {
		s.LogError(ctx, err, "Database not ready, transaction not added", slog.String("user_id", s.userID))
		s.notifier.Notify(ctx, errorNotification("Error saving transaction",
			"There was a problem saving your transaction. Please try again."))
		return nil, err
	}

	s.mu.Lock()
	s.transactions = append([]domain.Transaction{txn.Clone()}, s.transactions...)
	s.mu.Unlock()

	if err := s.repo.InsertTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to insert transaction",
			slog.String("user_id", s.userID), slog.String("transaction_id", txn.ID))
		metrics.RemoteFailures.WithLabelValues("insert").Inc()
		s.notifier.Notify(ctx, errorNotification("Error saving transaction",
			"There was a problem saving your transaction. Please try again."))
		return nil, remoteError("insert transaction", err)
	}

	s.LogInfo(ctx, "Transaction added", slog.String("user_id", s.userID), slog.String("transaction_id", txn.ID))
	s.notifier.Notify(ctx, infoNotification("Transaction added", "Your transaction was saved successfully."))

	if _, err := s.Fetch(ctx); err != nil {
		s.LogError(ctx, err, "Re-fetch after add failed", slog.String("user_id", s.userID))
	}
	return &txn, nil
}

// Update merges the patch into the local transaction and persists it scoped by id and
// owner. A failed remote update leaves the merged values in place and returns an error
// wrapping apperrors.ErrPartialUpdate together with the locally updated transaction.
func (s *TransactionStore) Update(ctx context.Context, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if s.userID == "" {
		return nil, fmt.Errorf("%w: sign in to update transactions", apperrors.ErrUnauthenticated)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if err := s.readiness.EnsureReady(ctx); err != nil {
		s.LogError(ctx, err, "Database not ready, transaction not updated", slog.String("user_id", s.userID))
		s.notifier.Notify(ctx, errorNotification("Error updating transaction",
			"The transaction could not be updated. Please try again."))
		return nil, err
	}

	updated, err := s.applyLocal(transactionID, patch)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, s.userID, transactionID, patch); err != nil {
		s.LogError(ctx, err, "Failed to update transaction",
			slog.String("user_id", s.userID), slog.String("transaction_id", transactionID))
		metrics.RemoteFailures.WithLabelValues("update").Inc()
		s.notifier.Notify(ctx, errorNotification("Error updating transaction",
			"The transaction was updated locally, but there was an error saving it on the server."))
		if s.reconcileFailedUpdates {
			if _, ferr := s.Fetch(ctx); ferr != nil {
				s.LogError(ctx, ferr, "Re-fetch after failed update failed", slog.String("user_id", s.userID))
			}
		}
		return updated, fmt.Errorf("%w: %v", apperrors.ErrPartialUpdate, err)
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("user_id", s.userID), slog.String("transaction_id", transactionID))
	s.notifier.Notify(ctx, infoNotification("Transaction updated", "Your transaction was updated successfully."))

	if _, err := s.Fetch(ctx); err != nil {
		s.LogError(ctx, err, "Re-fetch after update failed", slog.String("user_id", s.userID))
		return updated, nil
	}
	if refreshed, err := s.Get(transactionID); err == nil {
		return refreshed, nil
	}
	return updated, nil
}

func (s *TransactionStore) applyLocal(transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID != transactionID {
			continue
		}
		merged := patch.Apply(s.transactions[i], s.CurrentTime())
		s.transactions[i] = merged
		c := merged.Clone()
		return &c, nil
	}
	return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
}

// Delete removes the transaction locally, then remotely. On remote failure the list is
// re-fetched so the transaction reappears.
func (s *TransactionStore) Delete(ctx context.Context, transactionID string) error {
	if s.userID == "" {
		return fmt.Errorf("%w: sign in to delete transactions", apperrors.ErrUnauthenticated)
	}

	if err := s.readiness.EnsureReady(ctx); err != nil {
		s.LogError(ctx, err, "Database not ready, transaction not deleted", slog.String("user_id", s.userID))
		s.notifier.Notify(ctx, errorNotification("Error deleting transaction",
			"There was a problem deleting your transaction on the server."))
		return err
	}

	s.mu.Lock()
	kept := s.transactions[:0:0]
	for _, txn := range s.transactions {
		if txn.ID != transactionID {
			kept = append(kept, txn)
		}
	}
	s.transactions = kept
	s.mu.Unlock()

	if err := s.repo.DeleteTransaction(ctx, s.userID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction",
			slog.String("user_id", s.userID), slog.String("transaction_id", transactionID))
		metrics.RemoteFailures.WithLabelValues("delete").Inc()
		s.notifier.Notify(ctx, errorNotification("Error deleting transaction",
			"There was a problem deleting your transaction on the server."))
		if _, ferr := s.Fetch(ctx); ferr != nil {
			s.LogError(ctx, ferr, "Re-fetch after failed delete failed", slog.String("user_id", s.userID))
		}
		return remoteError("delete transaction", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("user_id", s.userID), slog.String("transaction_id", transactionID))
	s.notifier.Notify(ctx, infoNotification("Transaction deleted", "Your transaction was deleted successfully."))
	return nil
}

// ClearAll empties the local list, then deletes every owner row remotely. On remote
// failure the list is re-fetched.
func (s *TransactionStore) ClearAll(ctx context.Context) error {
	if s.userID == "" {
		return fmt.Errorf("%w: sign in to clear transactions", apperrors.ErrUnauthenticated)
	}

	if err := s.readiness.EnsureReady(ctx); err != nil {
		s.LogError(ctx, err, "Database not ready, transactions not cleared", slog.String("user_id", s.userID))
		s.notifier.Notify(ctx, errorNotification("Error clearing transactions",
			"There was a problem removing your transactions on the server."))
		return err
	}

	s.replace([]domain.Transaction{})

	if err := s.repo.DeleteAllTransactions(ctx, s.userID); err != nil {
		s.LogError(ctx, err, "Failed to clear transactions", slog.String("user_id", s.userID))
		metrics.RemoteFailures.WithLabelValues("clear_all").Inc()
		s.notifier.Notify(ctx, errorNotification("Error clearing transactions",
			"There was a problem removing your transactions on the server."))
		if _, ferr := s.Fetch(ctx); ferr != nil {
			s.LogError(ctx, ferr, "Re-fetch after failed clear failed", slog.String("user_id", s.userID))
		}
		return remoteError("clear transactions", err)
	}

	s.LogInfo(ctx, "All transactions cleared", slog.String("user_id", s.userID))
	s.notifier.Notify(ctx, infoNotification("Transactions removed", "All transactions were removed successfully."))
	return nil
}

func (s *TransactionStore) replace(rows []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = cloneTransactions(rows)
}

func (s *TransactionStore) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func cloneTransactions(in []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(in))
	for i, txn := range in {
		out[i] = txn.Clone()
	}
	return out
}

// remoteError wraps a remote failure with apperrors.ErrRemote. Errors that already carry
// a domain classification are returned unchanged.
func remoteError(op string, err error) error {
	for _, known := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrNotReady,
		apperrors.ErrValidation,
		apperrors.ErrDuplicate,
		apperrors.ErrRemote,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrRemote, op, err)
}
