package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, user_id, type, amount, date, category, description, status,
	attachment_name, attachment_url, password, actual_amount, created_at, last_updated_at`

// PgxTransactionRepository stores transactions in Postgres. Every statement is scoped by user_id.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Type,
		&m.Amount,
		&m.Date,
		&m.Category,
		&m.Description,
		&m.Status,
		&m.AttachmentName,
		&m.AttachmentURL,
		&m.Password,
		&m.ActualAmount,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, r.mapError(err, "query transactions")
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, r.mapError(err, "scan transaction")
		}
		txns = append(txns, m.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapError(err, "iterate transactions")
	}
	return txns, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		return nil, r.mapError(err, fmt.Sprintf("find transaction %s", transactionID))
	}
	txn := m.ToDomain()
	return &txn, nil
}

func (r *PgxTransactionRepository) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	m := models.FromDomainTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err := r.Pool.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.Type,
		m.Amount,
		m.Date,
		m.Category,
		m.Description,
		m.Status,
		m.AttachmentName,
		m.AttachmentURL,
		m.Password,
		m.ActualAmount,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	return r.mapError(err, "insert transaction")
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, userID string, transactionID string, patch domain.TransactionPatch) error {
	cols := models.TransactionPatchColumns(patch, time.Now().UTC())

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+2)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c.Column, i+1)
		args = append(args, c.Value)
	}
	args = append(args, transactionID, userID)

	query := fmt.Sprintf(`UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d;`,
		strings.Join(sets, ", "), len(cols)+1, len(cols)+2)

	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return r.mapError(err, "update transaction")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2;`, transactionID, userID)
	if err != nil {
		return r.mapError(err, "delete transaction")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteAllTransactions(ctx context.Context, userID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1;`, userID)
	return r.mapError(err, "delete all transactions")
}
