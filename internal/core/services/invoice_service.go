package services

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/metrics"
	"github.com/SscSPs/finance_tracker/internal/utils/finance"
	"github.com/shopspring/decimal"
)

const (
	// DefaultInvoiceDemoPassword unlocks every protected invoice. It is a demonstration
	// gate, not an access control.
	DefaultInvoiceDemoPassword = "1234"

	manualInvoiceDescription          = "Fatura do Bradesco"
	manualProtectedInvoiceDescription = "Fatura do Bradesco (Protegida)"
	manualInvoiceCategory             = "Cartão de Crédito"
)

var (
	expenseInvoiceFactor = decimal.RequireFromString("1.05")
	incomeInvoiceFactor  = decimal.RequireFromString("0.95")
)

type invoiceService struct {
	BaseService
	finance      portssvc.FinanceSvcFacade
	ocr          portssvc.OCRSvc
	files        portsrepo.InvoiceFileStore
	demoPassword string
}

// InvoiceServiceOption configures the invoice service.
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceDemoPassword sets the shared secret that unlocks protected invoices.
func WithInvoiceDemoPassword(password string) InvoiceServiceOption {
	return func(s *invoiceService) {
		if password != "" {
			s.demoPassword = password
		}
	}
}

// WithInvoiceClock replaces the clock used for upload paths and default dates.
func WithInvoiceClock(now func() time.Time) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Now = now
	}
}

// NewInvoiceService creates the invoice workflow service.
func NewInvoiceService(financeSvc portssvc.FinanceSvcFacade, ocr portssvc.OCRSvc, files portsrepo.InvoiceFileStore, opts ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	s := &invoiceService{
		finance:      financeSvc,
		ocr:          ocr,
		files:        files,
		demoPassword: DefaultInvoiceDemoPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *invoiceService) ExtractInvoice(ctx context.Context, userID string, upload domain.InvoiceUpload) (*domain.InvoiceExtraction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrUnauthenticated)
	}
	if err := validateUpload(upload); err != nil {
		return nil, err
	}
	return s.ocr.Extract(ctx, upload)
}

// UploadInvoice stores the file under <userID>/<unixMillis>-<name>.
func (s *invoiceService) UploadInvoice(ctx context.Context, userID string, upload domain.InvoiceUpload) (*domain.Attachment, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrUnauthenticated)
	}
	if err := validateUpload(upload); err != nil {
		return nil, err
	}

	name := path.Base(strings.ReplaceAll(upload.FileName, "\\", "/"))
	objectPath := fmt.Sprintf("%s/%d-%s", userID, s.CurrentTime().UnixMilli(), name)

	url, err := s.files.Put(ctx, objectPath, upload.ContentType, bytes.NewReader(upload.Content))
	if err != nil {
		s.LogError(ctx, err, "Failed to upload invoice", slog.String("user_id", userID), slog.String("path", objectPath))
		metrics.RemoteFailures.WithLabelValues("invoice_upload").Inc()
		return nil, remoteError("upload invoice", err)
	}
	if url == "" {
		return nil, fmt.Errorf("%w: could not obtain the public URL of the file", apperrors.ErrRemote)
	}

	s.LogInfo(ctx, "Invoice uploaded", slog.String("user_id", userID), slog.String("path", objectPath))
	return &domain.Attachment{Name: upload.FileName, URL: url}, nil
}

// ProcessInvoice records the invoice as a DUE expense. Extracted values are used unless
// extraction is skipped; manual fields always win. Nothing is uploaded while the user is
// over the overdraft limit.
func (s *invoiceService) ProcessInvoice(ctx context.Context, userID string, input domain.ProcessInvoiceInput) (*domain.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrUnauthenticated)
	}
	if err := validateUpload(input.File); err != nil {
		return nil, err
	}
	if input.PasswordProtected && input.Password == "" {
		return nil, fmt.Errorf("%w: a password is required to protect the invoice", apperrors.ErrValidation)
	}

	txnInput, confidence, err := s.resolveInvoiceFields(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if !ValidateExtractedAmount(txnInput.Amount) {
		return nil, fmt.Errorf("%w: invoice amount must be greater than zero and below 100000", apperrors.ErrValidation)
	}

	if err := txnInput.ToTransaction("", userID, s.CurrentTime()).Validate(); err != nil {
		return nil, err
	}
	// Checked before the upload so a refused invoice leaves no file behind
	summary, err := s.finance.GetSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summary.IsOverLimit {
		return nil, fmt.Errorf("%w: overdraft limit exceeded, new invoices are blocked", apperrors.ErrOverLimit)
	}

	attachment, err := s.UploadInvoice(ctx, userID, input.File)
	if err != nil {
		return nil, err
	}
	txnInput.Attachment = attachment

	txn, err := s.finance.AddTransaction(ctx, userID, txnInput)
	if err != nil {
		return nil, err
	}
	metrics.InvoicesProcessed.WithLabelValues(confidence).Inc()
	s.LogInfo(ctx, "Invoice processed",
		slog.String("user_id", userID),
		slog.String("transaction_id", txn.ID),
		slog.Bool("protected", input.PasswordProtected))
	return txn, nil
}

func (s *invoiceService) resolveInvoiceFields(ctx context.Context, userID string, input domain.ProcessInvoiceInput) (domain.NewTransactionInput, string, error) {
	today := domain.NormalizeDate(s.CurrentTime())
	txn := domain.NewTransactionInput{
		Type:   domain.Expense,
		Status: domain.StatusDue,
		Date:   today,
	}
	confidence := "manual"

	if input.SkipExtraction {
		if input.Amount == nil {
			return txn, "", fmt.Errorf("%w: amount is required when extraction is skipped", apperrors.ErrValidation)
		}
		txn.Description = manualInvoiceDescription
		if input.PasswordProtected {
			txn.Description = manualProtectedInvoiceDescription
		}
		txn.Category = manualInvoiceCategory
	} else {
		extraction, err := s.ExtractInvoice(ctx, userID, input.File)
		if err != nil {
			return txn, "", err
		}
		txn.Amount = extraction.Amount
		txn.Description = extraction.Description
		txn.Category = extraction.Category
		txn.Date = extraction.Date
		confidence = string(extraction.Level())
	}

	if input.Amount != nil {
		txn.Amount = *input.Amount
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		txn.Description = *input.Description
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		txn.Category = *input.Category
	}
	if input.Date != nil && !input.Date.IsZero() {
		txn.Date = domain.NormalizeDate(*input.Date)
	}

	actual := txn.Amount
	txn.ActualAmount = &actual
	if input.PasswordProtected {
		pw := input.Password
		txn.Password = &pw
	}
	return txn, confidence, nil
}

// ViewInvoice returns the invoice details. Protected invoices require the shared demo password.
func (s *invoiceService) ViewInvoice(ctx context.Context, userID string, transactionID string, password string) (*domain.InvoiceView, error) {
	txn, err := s.finance.GetTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Attachment.IsEmpty() {
		return nil, fmt.Errorf("%w: transaction %s has no invoice attached", apperrors.ErrNotFound, transactionID)
	}

	if RequiresInvoicePassword(*txn) &&
		subtle.ConstantTimeCompare([]byte(password), []byte(s.demoPassword)) != 1 {
		s.LogInfo(ctx, "Invoice password rejected", slog.String("user_id", userID), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("%w: incorrect invoice password", apperrors.ErrForbidden)
	}

	actual := InvoiceActualAmount(*txn)
	return &domain.InvoiceView{
		TransactionID: txn.ID,
		Attachment:    *txn.Attachment,
		Amount:        txn.Amount,
		ActualAmount:  actual,
		AmountDiffers: !actual.Equal(txn.Amount),
		Description:   txn.Description,
		Category:      txn.Category,
		Date:          txn.Date,
		Status:        txn.Status,
	}, nil
}

// RequiresInvoicePassword reports whether the invoice is protected: a password was set,
// or the description marks it as protected.
func RequiresInvoicePassword(txn domain.Transaction) bool {
	if txn.IsPasswordProtected() {
		return true
	}
	desc := strings.ToLower(txn.Description)
	return strings.Contains(desc, "protegida") || strings.Contains(desc, "protected")
}

// InvoiceActualAmount is the stored actual amount, or when none was recorded, the amount
// adjusted by 5% (up for expenses, down for income).
func InvoiceActualAmount(txn domain.Transaction) decimal.Decimal {
	if txn.ActualAmount != nil {
		return *txn.ActualAmount
	}
	factor := expenseInvoiceFactor
	if txn.Type == domain.Income {
		factor = incomeInvoiceFactor
	}
	return finance.RoundToCents(txn.Amount.Mul(factor))
}

func validateUpload(upload domain.InvoiceUpload) error {
	if strings.TrimSpace(upload.FileName) == "" {
		return fmt.Errorf("%w: no file selected", apperrors.ErrValidation)
	}
	if len(upload.Content) == 0 {
		return fmt.Errorf("%w: file %s is empty", apperrors.ErrValidation, upload.FileName)
	}
	return nil
}
