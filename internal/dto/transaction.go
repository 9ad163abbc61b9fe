package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AttachmentDTO references an uploaded invoice file.
type AttachmentDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (a *AttachmentDTO) toDomain() *domain.Attachment {
	if a == nil {
		return nil
	}
	return &domain.Attachment{Name: a.Name, URL: a.URL}
}

// CreateTransactionRequest defines the data needed to create a new transaction.
type CreateTransactionRequest struct {
	Type         domain.TransactionType   `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount       decimal.Decimal          `json:"amount" binding:"decimal_gt0"`
	Date         string                   `json:"date" binding:"required,datetime=2006-01-02"`
	Category     string                   `json:"category" binding:"required"`
	Description  string                   `json:"description" binding:"required"`
	Status       domain.TransactionStatus `json:"status" binding:"omitempty,oneof=PENDING DUE PAID"` // Defaults to PENDING
	Attachment   *AttachmentDTO           `json:"attachment"`
	Password     *string                  `json:"password"`
	ActualAmount *decimal.Decimal         `json:"actualAmount" binding:"omitempty,decimal_gte0"`
}

// ToDomain converts the request into a service input.
func (r CreateTransactionRequest) ToDomain() (domain.NewTransactionInput, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.NewTransactionInput{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, r.Date)
	}
	status := r.Status
	if status == "" {
		status = domain.StatusPending
	}
	return domain.NewTransactionInput{
		Type:         r.Type,
		Amount:       r.Amount,
		Date:         date,
		Category:     r.Category,
		Description:  r.Description,
		Status:       status,
		Attachment:   r.Attachment.toDomain(),
		Password:     r.Password,
		ActualAmount: r.ActualAmount,
	}, nil
}

// UpdateTransactionRequest defines the fields allowed for updating a transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
// An attachment with empty name and url removes the current one.
type UpdateTransactionRequest struct {
	Type         *domain.TransactionType   `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount       *decimal.Decimal          `json:"amount" binding:"omitempty,decimal_gt0"`
	Date         *string                   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Category     *string                   `json:"category"`
	Description  *string                   `json:"description"`
	Status       *domain.TransactionStatus `json:"status" binding:"omitempty,oneof=PENDING DUE PAID"`
	Attachment   *AttachmentDTO            `json:"attachment"`
	Password     *string                   `json:"password"`
	ActualAmount *decimal.Decimal          `json:"actualAmount" binding:"omitempty,decimal_gte0"`
}

// ToDomain converts the request into a patch.
func (r UpdateTransactionRequest) ToDomain() (domain.TransactionPatch, error) {
	patch := domain.TransactionPatch{
		Type:         r.Type,
		Amount:       r.Amount,
		Category:     r.Category,
		Description:  r.Description,
		Status:       r.Status,
		Attachment:   r.Attachment.toDomain(),
		Password:     r.Password,
		ActualAmount: r.ActualAmount,
	}
	if r.Date != nil {
		date, err := domain.ParseDate(*r.Date)
		if err != nil {
			return domain.TransactionPatch{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *r.Date)
		}
		patch.Date = &date
	}
	return patch, nil
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Filter domain.TransactionFilter `form:"filter,default=all" binding:"omitempty,oneof=all income expense"`
}

// TransactionResponse defines the data returned for a transaction.
// The invoice password is never sent back.
type TransactionResponse struct {
	ID                string                   `json:"id"`
	Type              domain.TransactionType   `json:"type"`
	Amount            decimal.Decimal          `json:"amount"`
	Date              string                   `json:"date"`
	Category          string                   `json:"category"`
	Description       string                   `json:"description"`
	Status            domain.TransactionStatus `json:"status"`
	Attachment        *AttachmentDTO           `json:"attachment,omitempty"`
	PasswordProtected bool                     `json:"passwordProtected"`
	ActualAmount      *decimal.Decimal         `json:"actualAmount,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
	LastUpdatedAt     time.Time                `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	res := TransactionResponse{
		ID:                t.ID,
		Type:              t.Type,
		Amount:            t.Amount,
		Date:              t.Date.Format(domain.DateLayout),
		Category:          t.Category,
		Description:       t.Description,
		Status:            t.Status,
		PasswordProtected: t.IsPasswordProtected(),
		ActualAmount:      t.ActualAmount,
		CreatedAt:         t.CreatedAt,
		LastUpdatedAt:     t.LastUpdatedAt,
	}
	if t.Attachment != nil {
		res.Attachment = &AttachmentDTO{Name: t.Attachment.Name, URL: t.Attachment.URL}
	}
	return res
}

// ToListTransactionResponse converts a slice of domain.Transaction to a slice of TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsResponse wraps a transaction listing.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}
