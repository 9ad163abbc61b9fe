package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// ListTransactions returns every transaction of the user, newest created first.
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)

	// FindTransactionByID retrieves one transaction scoped to its owner.
	FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
// Every method is scoped by owner; update and delete are additionally scoped by id.
type TransactionWriter interface {
	// InsertTransaction persists a new transaction.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction writes the patched fields of one transaction.
	UpdateTransaction(ctx context.Context, userID string, transactionID string, patch domain.TransactionPatch) error

	// DeleteTransaction removes one transaction.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	// DeleteAllTransactions removes every transaction of the user.
	DeleteAllTransactions(ctx context.Context, userID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
