package dto

import (
	"fmt"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProcessInvoiceForm holds the multipart fields sent with an invoice file.
// Manual values override whatever the extraction finds.
type ProcessInvoiceForm struct {
	PasswordProtected bool   `form:"passwordProtected"`
	Password          string `form:"password"`
	Amount            string `form:"amount"`
	Description       string `form:"description"`
	Category          string `form:"category"`
	Date              string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	SkipExtraction    bool   `form:"skipExtraction"`
}

// ToDomain builds the service input for the uploaded file.
func (f ProcessInvoiceForm) ToDomain(file domain.InvoiceUpload) (domain.ProcessInvoiceInput, error) {
	in := domain.ProcessInvoiceInput{
		File:              file,
		PasswordProtected: f.PasswordProtected,
		Password:          f.Password,
		SkipExtraction:    f.SkipExtraction,
	}
	if s := strings.TrimSpace(f.Amount); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return domain.ProcessInvoiceInput{}, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, f.Amount)
		}
		in.Amount = &amount
	}
	if s := strings.TrimSpace(f.Description); s != "" {
		in.Description = &s
	}
	if s := strings.TrimSpace(f.Category); s != "" {
		in.Category = &s
	}
	if f.Date != "" {
		date, err := domain.ParseDate(f.Date)
		if err != nil {
			return domain.ProcessInvoiceInput{}, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, f.Date)
		}
		in.Date = &date
	}
	return in, nil
}

// InvoiceExtractionResponse is the OCR result shown before the user confirms it.
type InvoiceExtractionResponse struct {
	FileName        string                 `json:"fileName"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	Date            string                 `json:"date"`
	Category        string                 `json:"category"`
	Confidence      float64                `json:"confidence"`
	ConfidenceLevel domain.ConfidenceLevel `json:"confidenceLevel"`
	TextAmount      *decimal.Decimal       `json:"textAmount,omitempty"`
}

// ToInvoiceExtractionResponse converts a domain.InvoiceExtraction to its DTO.
func ToInvoiceExtractionResponse(e *domain.InvoiceExtraction) InvoiceExtractionResponse {
	return InvoiceExtractionResponse{
		FileName:        e.FileName,
		Amount:          e.Amount,
		Description:     e.Description,
		Date:            e.Date.Format(domain.DateLayout),
		Category:        e.Category,
		Confidence:      e.Confidence,
		ConfidenceLevel: e.Level(),
		TextAmount:      e.TextAmount,
	}
}

// ViewInvoiceRequest carries the password typed by the user, if any.
type ViewInvoiceRequest struct {
	Password string `json:"password"`
}

// InvoiceViewResponse is the invoice detail shown once access is granted.
type InvoiceViewResponse struct {
	TransactionID string                   `json:"transactionID"`
	Attachment    AttachmentDTO            `json:"attachment"`
	Amount        decimal.Decimal          `json:"amount"`
	ActualAmount  decimal.Decimal          `json:"actualAmount"`
	AmountDiffers bool                     `json:"amountDiffers"`
	Description   string                   `json:"description"`
	Category      string                   `json:"category"`
	Date          string                   `json:"date"`
	Status        domain.TransactionStatus `json:"status"`
}

// ToInvoiceViewResponse converts a domain.InvoiceView to its DTO.
func ToInvoiceViewResponse(v *domain.InvoiceView) InvoiceViewResponse {
	return InvoiceViewResponse{
		TransactionID: v.TransactionID,
		Attachment:    AttachmentDTO{Name: v.Attachment.Name, URL: v.Attachment.URL},
		Amount:        v.Amount,
		ActualAmount:  v.ActualAmount,
		AmountDiffers: v.AmountDiffers,
		Description:   v.Description,
		Category:      v.Category,
		Date:          v.Date.Format(domain.DateLayout),
		Status:        v.Status,
	}
}
