package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionReaderSvc defines read operations on a user's transactions.
type TransactionReaderSvc interface {
	// ListTransactions returns the user's local transaction list narrowed by filter.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// GetTransaction returns one transaction from the user's local list.
	GetTransaction(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// RefreshTransactions replaces the local list with the remote rows.
	RefreshTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines optimistic write operations on a user's transactions.
type TransactionWriterSvc interface {
	// AddTransaction creates a transaction unless the user is over the overdraft limit.
	AddTransaction(ctx context.Context, userID string, input domain.NewTransactionInput) (*domain.Transaction, error)

	// UpdateTransaction merges the patch into an existing transaction.
	UpdateTransaction(ctx context.Context, userID string, transactionID string, patch domain.TransactionPatch) (*domain.Transaction, error)

	// MarkAsPaid sets the status to PAID. It does nothing when the transaction is already paid.
	MarkAsPaid(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// DeleteTransaction removes one transaction.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	// ClearAllTransactions removes every transaction of the user.
	ClearAllTransactions(ctx context.Context, userID string) error
}

// SettingsSvc defines settings operations.
type SettingsSvc interface {
	GetSettings(ctx context.Context, userID string) (*domain.Settings, error)
	SaveSettings(ctx context.Context, userID string, settings domain.Settings) (*domain.SettingsSaveResult, error)
}

// FinanceSvcFacade combines every user-scoped finance operation.
type FinanceSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	SettingsSvc

	// GetSummary computes the dashboard figures from the current settings and transactions.
	GetSummary(ctx context.Context, userID string) (*domain.BalanceSummary, error)

	// DrainNotifications returns and clears the user's pending notifications.
	DrainNotifications(ctx context.Context, userID string) []domain.Notification
}
