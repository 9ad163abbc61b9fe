package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, type, amount, date, category, description, status,
	attachment_name, attachment_url, password, actual_amount, created_at, last_updated_at`

// TransactionRepository stores transactions in SQLite. Every statement is scoped by user_id.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a transaction repository on db.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		m            models.Transaction
		amount       string
		date         string
		actualAmount sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Type,
		&amount,
		&date,
		&m.Category,
		&m.Description,
		&m.Status,
		&m.AttachmentName,
		&m.AttachmentURL,
		&m.Password,
		&actualAmount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return m, err
	}

	if m.Amount, err = decimal.NewFromString(amount); err != nil {
		return m, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if m.Date, err = domain.ParseDate(date); err != nil {
		return m, fmt.Errorf("parse date %q: %w", date, err)
	}
	if actualAmount.Valid {
		d, err := decimal.NewFromString(actualAmount.String)
		if err != nil {
			return m, fmt.Errorf("parse actual amount %q: %w", actualAmount.String, err)
		}
		m.ActualAmount = decimal.NewNullDecimal(d)
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if m.LastUpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return m, fmt.Errorf("parse last_updated_at %q: %w", updatedAt, err)
	}
	return m, nil
}

func (r *TransactionRepository) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id;`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, m.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = ? AND user_id = ?;`

	m, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find transaction %s: %w", transactionID, err)
	}
	txn := m.ToDomain()
	return &txn, nil
}

func (r *TransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := models.FromDomainTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.UserID,
		m.Type,
		toSQLiteValue("amount", m.Amount),
		toSQLiteValue("date", m.Date),
		m.Category,
		m.Description,
		m.Status,
		m.AttachmentName,
		m.AttachmentURL,
		m.Password,
		toSQLiteValue("actual_amount", m.ActualAmount),
		formatTimestamp(m.CreatedAt),
		formatTimestamp(m.LastUpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("insert transaction %s: %w", m.ID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) UpdateTransaction(ctx context.Context, userID string, transactionID string, patch domain.TransactionPatch) error {
	cols := models.TransactionPatchColumns(patch, time.Now().UTC())

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+2)
	for i, c := range cols {
		sets[i] = c.Column + " = ?"
		args = append(args, toSQLiteValue(c.Column, c.Value))
	}
	args = append(args, transactionID, userID)

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?;`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, "update transaction "+transactionID)
}

func (r *TransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?;`, transactionID, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "delete transaction "+transactionID)
}

func (r *TransactionRepository) DeleteAllTransactions(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?;`, userID); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, action string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", action, apperrors.ErrNotFound)
	}
	return nil
}
