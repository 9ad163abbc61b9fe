package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// OCRSvc simulates text extraction from an invoice file.
type OCRSvc interface {
	Extract(ctx context.Context, upload domain.InvoiceUpload) (*domain.InvoiceExtraction, error)
}

// InvoiceSvcFacade turns uploaded invoices into expense transactions.
type InvoiceSvcFacade interface {
	// ExtractInvoice runs the OCR stub without storing anything.
	ExtractInvoice(ctx context.Context, userID string, upload domain.InvoiceUpload) (*domain.InvoiceExtraction, error)

	// UploadInvoice stores the file and returns the resulting attachment.
	UploadInvoice(ctx context.Context, userID string, upload domain.InvoiceUpload) (*domain.Attachment, error)

	// ProcessInvoice uploads the file, extracts or takes the manual values and records a DUE expense.
	ProcessInvoice(ctx context.Context, userID string, input domain.ProcessInvoiceInput) (*domain.Transaction, error)

	// ViewInvoice returns the invoice details, checking the password for protected invoices.
	ViewInvoice(ctx context.Context, userID string, transactionID string, password string) (*domain.InvoiceView, error)
}
