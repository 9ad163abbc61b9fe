package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction adds to or subtracts from the balance.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// TransactionStatus is the payment lifecycle label of a transaction.
// PENDING and DUE are both unpaid; PAID is settled.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusDue     TransactionStatus = "DUE"
	StatusPaid    TransactionStatus = "PAID"
)

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	return s == StatusPending || s == StatusDue || s == StatusPaid
}

// Attachment references an invoice file stored outside the database.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// IsEmpty reports whether neither the name nor the URL is set.
func (a *Attachment) IsEmpty() bool {
	return a == nil || (a.Name == "" && a.URL == "")
}

// Transaction is a single income or expense entry owned by one user.
type Transaction struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userID"`
	Type         TransactionType   `json:"type"`
	Amount       decimal.Decimal   `json:"amount"` // Always positive; sign comes from Type
	Date         time.Time         `json:"date"`   // Calendar date, time component is ignored
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	Status       TransactionStatus `json:"status"`
	Attachment   *Attachment       `json:"attachment,omitempty"`
	Password     *string           `json:"-"`
	ActualAmount *decimal.Decimal  `json:"actualAmount,omitempty"`
	AuditFields
}

// IsPasswordProtected reports whether viewing the invoice requires the demo password.
func (t Transaction) IsPasswordProtected() bool {
	return t.Password != nil && *t.Password != ""
}

// Clone returns a deep copy so callers can't mutate shared pointer fields.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Attachment != nil {
		a := *t.Attachment
		c.Attachment = &a
	}
	if t.Password != nil {
		p := *t.Password
		c.Password = &p
	}
	if t.ActualAmount != nil {
		aa := *t.ActualAmount
		c.ActualAmount = &aa
	}
	return c
}

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: invalid transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !HasMoneyScale(t.Amount) {
		return fmt.Errorf("%w: amount cannot have more than %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, t.Status)
	}
	if t.ActualAmount != nil && t.ActualAmount.IsNegative() {
		return fmt.Errorf("%w: actual amount cannot be negative", apperrors.ErrValidation)
	}
	if t.ActualAmount != nil && !HasMoneyScale(*t.ActualAmount) {
		return fmt.Errorf("%w: actual amount cannot have more than %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	return nil
}

// NewTransactionInput holds the caller-provided fields of a transaction to create.
// The identifier and owner are assigned by the transaction store.
type NewTransactionInput struct {
	Type         TransactionType
	Amount       decimal.Decimal
	Date         time.Time
	Category     string
	Description  string
	Status       TransactionStatus
	Attachment   *Attachment
	Password     *string
	ActualAmount *decimal.Decimal
}

// ToTransaction builds a transaction from the input, dropping an attachment with no name and no URL.
func (in NewTransactionInput) ToTransaction(id, userID string, now time.Time) Transaction {
	tx := Transaction{
		ID:           id,
		UserID:       userID,
		Type:         in.Type,
		Amount:       in.Amount,
		Date:         NormalizeDate(in.Date),
		Category:     in.Category,
		Description:  in.Description,
		Status:       in.Status,
		Attachment:   in.Attachment,
		Password:     in.Password,
		ActualAmount: in.ActualAmount,
		AuditFields: AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if tx.Attachment.IsEmpty() {
		tx.Attachment = nil
	}
	return tx.Clone()
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Type         *TransactionType
	Amount       *decimal.Decimal
	Date         *time.Time
	Category     *string
	Description  *string
	Status       *TransactionStatus
	Attachment   *Attachment
	Password     *string
	ActualAmount *decimal.Decimal
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.Date == nil && p.Category == nil &&
		p.Description == nil && p.Status == nil && p.Attachment == nil &&
		p.Password == nil && p.ActualAmount == nil
}

// Validate checks only the fields present in the patch.
func (p TransactionPatch) Validate() error {
	if p.Type != nil && !p.Type.IsValid() {
		return fmt.Errorf("%w: invalid transaction type %q", apperrors.ErrValidation, *p.Type)
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if p.Amount != nil && !HasMoneyScale(*p.Amount) {
		return fmt.Errorf("%w: amount cannot have more than %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("%w: date cannot be empty", apperrors.ErrValidation)
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return fmt.Errorf("%w: category cannot be empty", apperrors.ErrValidation)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return fmt.Errorf("%w: description cannot be empty", apperrors.ErrValidation)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *p.Status)
	}
	if p.ActualAmount != nil && p.ActualAmount.IsNegative() {
		return fmt.Errorf("%w: actual amount cannot be negative", apperrors.ErrValidation)
	}
	if p.ActualAmount != nil && !HasMoneyScale(*p.ActualAmount) {
		return fmt.Errorf("%w: actual amount cannot have more than %d decimal places", apperrors.ErrValidation, MoneyScale)
	}
	return nil
}

// Apply returns a copy of t with the patch fields merged in.
func (p TransactionPatch) Apply(t Transaction, now time.Time) Transaction {
	out := t.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Date != nil {
		out.Date = NormalizeDate(*p.Date)
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Attachment != nil {
		if p.Attachment.IsEmpty() {
			out.Attachment = nil
		} else {
			a := *p.Attachment
			out.Attachment = &a
		}
	}
	if p.Password != nil {
		pw := *p.Password
		out.Password = &pw
	}
	if p.ActualAmount != nil {
		aa := *p.ActualAmount
		out.ActualAmount = &aa
	}
	out.LastUpdatedAt = now
	return out
}

// TransactionFilter narrows a transaction listing by type.
type TransactionFilter string

const (
	FilterAll     TransactionFilter = "all"
	FilterIncome  TransactionFilter = "income"
	FilterExpense TransactionFilter = "expense"
)

// Matches reports whether t passes the filter. Unknown filters match everything.
func (f TransactionFilter) Matches(t Transaction) bool {
	switch f {
	case FilterIncome:
		return t.Type == Income
	case FilterExpense:
		return t.Type == Expense
	default:
		return true
	}
}
