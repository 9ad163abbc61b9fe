package models

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
// The attachment is flattened into two nullable columns.
type Transaction struct {
	ID             string              `db:"id"`
	UserID         string              `db:"user_id"`
	Type           string              `db:"type"`
	Amount         decimal.Decimal     `db:"amount"`
	Date           time.Time           `db:"date"`
	Category       string              `db:"category"`
	Description    string              `db:"description"`
	Status         string              `db:"status"`
	AttachmentName *string             `db:"attachment_name"`
	AttachmentURL  *string             `db:"attachment_url"`
	Password       *string             `db:"password"`
	ActualAmount   decimal.NullDecimal `db:"actual_amount"`
	AuditFields
}

// FromDomainTransaction converts a domain transaction to its row.
func FromDomainTransaction(d domain.Transaction) Transaction {
	m := Transaction{
		ID:          d.ID,
		UserID:      d.UserID,
		Type:        string(d.Type),
		Amount:      d.Amount,
		Date:        domain.NormalizeDate(d.Date),
		Category:    d.Category,
		Description: d.Description,
		Status:      string(d.Status),
		Password:    d.Password,
		AuditFields: AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
	if !d.Attachment.IsEmpty() {
		name, url := d.Attachment.Name, d.Attachment.URL
		m.AttachmentName = &name
		m.AttachmentURL = &url
	}
	if d.ActualAmount != nil {
		m.ActualAmount = decimal.NewNullDecimal(*d.ActualAmount)
	}
	return m
}

// ToDomain converts the row to a domain transaction.
func (m Transaction) ToDomain() domain.Transaction {
	d := domain.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        domain.TransactionType(m.Type),
		Amount:      m.Amount,
		Date:        domain.NormalizeDate(m.Date),
		Category:    m.Category,
		Description: m.Description,
		Status:      domain.TransactionStatus(m.Status),
		Password:    m.Password,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
	a := &domain.Attachment{}
	if m.AttachmentName != nil {
		a.Name = *m.AttachmentName
	}
	if m.AttachmentURL != nil {
		a.URL = *m.AttachmentURL
	}
	if !a.IsEmpty() {
		d.Attachment = a
	}
	if m.ActualAmount.Valid {
		aa := m.ActualAmount.Decimal
		d.ActualAmount = &aa
	}
	return d
}

// ColumnValue is one column assignment of an UPDATE statement.
type ColumnValue struct {
	Column string
	Value  any
}

// TransactionPatchColumns lists the columns a patch changes, in a stable order.
// Values keep their Go types (decimal.Decimal, time.Time, *string); an empty attachment
// clears both attachment columns.
func TransactionPatchColumns(p domain.TransactionPatch, now time.Time) []ColumnValue {
	cols := make([]ColumnValue, 0, 11)
	if p.Type != nil {
		cols = append(cols, ColumnValue{"type", string(*p.Type)})
	}
	if p.Amount != nil {
		cols = append(cols, ColumnValue{"amount", *p.Amount})
	}
	if p.Date != nil {
		cols = append(cols, ColumnValue{"date", domain.NormalizeDate(*p.Date)})
	}
	if p.Category != nil {
		cols = append(cols, ColumnValue{"category", *p.Category})
	}
	if p.Description != nil {
		cols = append(cols, ColumnValue{"description", *p.Description})
	}
	if p.Status != nil {
		cols = append(cols, ColumnValue{"status", string(*p.Status)})
	}
	if p.Attachment != nil {
		var name, url *string
		if !p.Attachment.IsEmpty() {
			n, u := p.Attachment.Name, p.Attachment.URL
			name, url = &n, &u
		}
		cols = append(cols, ColumnValue{"attachment_name", name}, ColumnValue{"attachment_url", url})
	}
	if p.Password != nil {
		pw := *p.Password
		cols = append(cols, ColumnValue{"password", &pw})
	}
	if p.ActualAmount != nil {
		cols = append(cols, ColumnValue{"actual_amount", decimal.NewNullDecimal(*p.ActualAmount)})
	}
	cols = append(cols, ColumnValue{"last_updated_at", now})
	return cols
}
