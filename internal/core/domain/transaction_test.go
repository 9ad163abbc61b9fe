package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() domain.Transaction {
	return domain.Transaction{
		ID:          "txn_123",
		UserID:      "user_123",
		Type:        domain.Expense,
		Amount:      decimal.NewFromFloat(100.00),
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Category:    "Moradia",
		Description: "Aluguel",
		Status:      domain.StatusPending,
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(tx *domain.Transaction)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid expense",
			mutate:  func(tx *domain.Transaction) {},
			wantErr: false,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.Zero },
			wantErr: true,
			errMsg:  "amount must be greater than zero",
		},
		{
			name:    "negative amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.NewFromInt(-5) },
			wantErr: true,
			errMsg:  "amount must be greater than zero",
		},
		{
			name:    "sub-cent amount",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.RequireFromString("0.004") },
			wantErr: true,
			errMsg:  "more than 2 decimal places",
		},
		{
			name:    "three decimal places",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.RequireFromString("10.129") },
			wantErr: true,
			errMsg:  "more than 2 decimal places",
		},
		{
			name:    "trailing zero past cents",
			mutate:  func(tx *domain.Transaction) { tx.Amount = decimal.RequireFromString("10.120") },
			wantErr: false,
		},
		{
			name: "sub-cent actual amount",
			mutate: func(tx *domain.Transaction) {
				aa := decimal.RequireFromString("9.999")
				tx.ActualAmount = &aa
			},
			wantErr: true,
			errMsg:  "actual amount cannot have more than 2 decimal places",
		},
		{
			name:    "unknown type",
			mutate:  func(tx *domain.Transaction) { tx.Type = "TRANSFER" },
			wantErr: true,
			errMsg:  "invalid transaction type",
		},
		{
			name:    "unknown status",
			mutate:  func(tx *domain.Transaction) { tx.Status = "LATE" },
			wantErr: true,
			errMsg:  "invalid status",
		},
		{
			name:    "missing category",
			mutate:  func(tx *domain.Transaction) { tx.Category = "  " },
			wantErr: true,
			errMsg:  "category is required",
		},
		{
			name:    "missing description",
			mutate:  func(tx *domain.Transaction) { tx.Description = "" },
			wantErr: true,
			errMsg:  "description is required",
		},
		{
			name:    "missing date",
			mutate:  func(tx *domain.Transaction) { tx.Date = time.Time{} },
			wantErr: true,
			errMsg:  "date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTransactionInput_ToTransaction(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)

	t.Run("drops attachment without name and url", func(t *testing.T) {
		in := domain.NewTransactionInput{
			Type:       domain.Income,
			Amount:     decimal.NewFromInt(10),
			Date:       time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC),
			Category:   "Salário",
			Status:     domain.StatusPaid,
			Attachment: &domain.Attachment{},
		}
		tx := in.ToTransaction("id-1", "user-1", now)
		assert.Nil(t, tx.Attachment)
		assert.Equal(t, "id-1", tx.ID)
		assert.Equal(t, "user-1", tx.UserID)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
		assert.Equal(t, now, tx.CreatedAt)
	})

	t.Run("keeps attachment with only a name", func(t *testing.T) {
		in := domain.NewTransactionInput{Attachment: &domain.Attachment{Name: "fatura.pdf"}}
		tx := in.ToTransaction("id-2", "user-1", now)
		if assert.NotNil(t, tx.Attachment) {
			assert.Equal(t, "fatura.pdf", tx.Attachment.Name)
		}
	})
}

func TestTransactionPatch_Apply(t *testing.T) {
	now := time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)
	original := validTransaction()
	original.Attachment = &domain.Attachment{Name: "a.pdf", URL: "http://files/a.pdf"}

	paid := domain.StatusPaid
	amount := decimal.NewFromFloat(120.5)
	patch := domain.TransactionPatch{Status: &paid, Amount: &amount, Attachment: &domain.Attachment{}}

	updated := patch.Apply(original, now)

	assert.Equal(t, domain.StatusPaid, updated.Status)
	assert.True(t, amount.Equal(updated.Amount))
	assert.Nil(t, updated.Attachment, "an empty attachment in a patch removes it")
	assert.Equal(t, now, updated.LastUpdatedAt)
	// original untouched
	assert.Equal(t, domain.StatusPending, original.Status)
	assert.NotNil(t, original.Attachment)
}

func TestTransactionPatch_Validate(t *testing.T) {
	zero := decimal.Zero
	empty := ""
	badStatus := domain.TransactionStatus("LATE")

	assert.NoError(t, domain.TransactionPatch{}.Validate())
	assert.ErrorIs(t, domain.TransactionPatch{Amount: &zero}.Validate(), apperrors.ErrValidation)
	subCent := decimal.RequireFromString("0.004")
	assert.ErrorIs(t, domain.TransactionPatch{Amount: &subCent}.Validate(), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.TransactionPatch{ActualAmount: &subCent}.Validate(), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.TransactionPatch{Category: &empty}.Validate(), apperrors.ErrValidation)
	assert.ErrorIs(t, domain.TransactionPatch{Status: &badStatus}.Validate(), apperrors.ErrValidation)
}

func TestTransactionFilter_Matches(t *testing.T) {
	income := domain.Transaction{Type: domain.Income}
	expense := domain.Transaction{Type: domain.Expense}

	assert.True(t, domain.FilterAll.Matches(income))
	assert.True(t, domain.FilterAll.Matches(expense))
	assert.True(t, domain.FilterIncome.Matches(income))
	assert.False(t, domain.FilterIncome.Matches(expense))
	assert.True(t, domain.FilterExpense.Matches(expense))
	assert.False(t, domain.FilterExpense.Matches(income))
}

func TestConfidenceLevelFor(t *testing.T) {
	assert.Equal(t, domain.ConfidenceHigh, domain.ConfidenceLevelFor(0.95))
	assert.Equal(t, domain.ConfidenceHigh, domain.ConfidenceLevelFor(0.9))
	assert.Equal(t, domain.ConfidenceMedium, domain.ConfidenceLevelFor(0.88))
	assert.Equal(t, domain.ConfidenceMedium, domain.ConfidenceLevelFor(0.8))
	assert.Equal(t, domain.ConfidenceLow, domain.ConfidenceLevelFor(0.75))
}

func TestSettings_Validate(t *testing.T) {
	s := domain.DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.True(t, s.OverdraftLimit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.InitialBalance.IsZero())
	assert.True(t, s.NotificationsEnabled)

	s.OverdraftLimit = decimal.NewFromInt(-1)
	assert.ErrorIs(t, s.Validate(), apperrors.ErrValidation)

	s.OverdraftLimit = decimal.RequireFromString("100.005")
	assert.ErrorIs(t, s.Validate(), apperrors.ErrValidation)

	s.OverdraftLimit = decimal.Zero
	s.InitialBalance = decimal.NewFromInt(-500)
	assert.NoError(t, s.Validate(), "initial balance may be negative")
}
