package dto

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateTransactionRequest {
	return CreateTransactionRequest{
		Type:        domain.Expense,
		Amount:      decimal.RequireFromString("150.25"),
		Date:        "2026-03-14",
		Category:    "Moradia",
		Description: "Aluguel",
	}
}

func TestCreateTransactionRequest_Validation(t *testing.T) {
	RegisterValidators()
	RegisterValidators()

	tests := []struct {
		name    string
		mutate  func(r *CreateTransactionRequest)
		wantErr bool
	}{
		{"valid", func(r *CreateTransactionRequest) {}, false},
		{"zero amount", func(r *CreateTransactionRequest) { r.Amount = decimal.Zero }, true},
		{"negative amount", func(r *CreateTransactionRequest) { r.Amount = decimal.NewFromInt(-3) }, true},
		{"sub-cent amount", func(r *CreateTransactionRequest) { r.Amount = decimal.RequireFromString("0.004") }, true},
		{"three decimal places", func(r *CreateTransactionRequest) { r.Amount = decimal.RequireFromString("10.129") }, true},
		{"unknown type", func(r *CreateTransactionRequest) { r.Type = "TRANSFER" }, true},
		{"bad date", func(r *CreateTransactionRequest) { r.Date = "14/03/2026" }, true},
		{"missing category", func(r *CreateTransactionRequest) { r.Category = "" }, true},
		{"unknown status", func(r *CreateTransactionRequest) { r.Status = "LATE" }, true},
		{"paid status", func(r *CreateTransactionRequest) { r.Status = domain.StatusPaid }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			err := binding.Validator.ValidateStruct(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateTransactionRequest_ToDomain(t *testing.T) {
	req := validCreateRequest()
	req.Attachment = &AttachmentDTO{Name: "nota.pdf", URL: "http://files/nota.pdf"}

	in, err := req.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, in.Status, "status defaults to pending")
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), in.Date)
	require.NotNil(t, in.Attachment)
	assert.Equal(t, "nota.pdf", in.Attachment.Name)

	req.Date = "2026-02-30"
	_, err = req.ToDomain()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateTransactionRequest_ToDomain(t *testing.T) {
	category := "Lazer"
	date := "2026-04-01"
	patch, err := UpdateTransactionRequest{Category: &category, Date: &date}.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, &category, patch.Category)
	require.NotNil(t, patch.Date)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *patch.Date)
	assert.Nil(t, patch.Amount)
	assert.Nil(t, patch.Attachment)

	bad := "yesterday"
	_, err = UpdateTransactionRequest{Date: &bad}.ToDomain()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestToTransactionResponse_HidesPassword(t *testing.T) {
	pw := "1234"
	txn := domain.Transaction{
		ID:         "txn-1",
		Type:       domain.Expense,
		Amount:     decimal.NewFromInt(80),
		Date:       time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC),
		Status:     domain.StatusDue,
		Attachment: &domain.Attachment{Name: "a.pdf", URL: "u"},
		Password:   &pw,
	}

	res := ToListTransactionResponse([]domain.Transaction{txn})
	require.Len(t, res, 1)
	assert.Equal(t, "2026-01-09", res[0].Date)
	assert.True(t, res[0].PasswordProtected)
	require.NotNil(t, res[0].Attachment)
	assert.Equal(t, "a.pdf", res[0].Attachment.Name)
}

func TestSaveSettingsRequest(t *testing.T) {
	RegisterValidators()

	req := SaveSettingsRequest{
		InitialBalance: decimal.NewFromInt(-50),
		OverdraftLimit: decimal.NewFromInt(500),
	}
	assert.NoError(t, binding.Validator.ValidateStruct(req), "a negative initial balance is allowed")
	assert.True(t, req.ToDomain().NotificationsEnabled)

	off := false
	req.NotificationsEnabled = &off
	assert.False(t, req.ToDomain().NotificationsEnabled)

	req.OverdraftLimit = decimal.NewFromInt(-1)
	assert.Error(t, binding.Validator.ValidateStruct(req))
}

func TestProcessInvoiceForm_ToDomain(t *testing.T) {
	file := domain.InvoiceUpload{FileName: "conta.pdf"}

	in, err := ProcessInvoiceForm{Amount: " 42.10 ", Category: "  ", Date: "2026-05-02"}.ToDomain(file)
	require.NoError(t, err)
	require.NotNil(t, in.Amount)
	assert.True(t, decimal.RequireFromString("42.10").Equal(*in.Amount))
	assert.Nil(t, in.Category, "blank fields are left to extraction")
	require.NotNil(t, in.Date)
	assert.Equal(t, "conta.pdf", in.File.FileName)

	_, err = ProcessInvoiceForm{Amount: "R$ 10"}.ToDomain(file)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
