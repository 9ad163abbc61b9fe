package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfidenceLevel buckets an OCR confidence score for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConfidenceLevelFor maps a score to its bucket: >=0.9 high, >=0.8 medium, otherwise low.
func ConfidenceLevelFor(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.9:
		return ConfidenceHigh
	case confidence >= 0.8:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// InvoiceExtraction is the (simulated) OCR result for an uploaded invoice.
type InvoiceExtraction struct {
	FileName    string           `json:"fileName"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	Category    string           `json:"category"`
	Confidence  float64          `json:"confidence"`
	TextAmount  *decimal.Decimal `json:"textAmount,omitempty"` // First money value found in a PDF text layer
}

// Level returns the confidence bucket of the extraction.
func (e InvoiceExtraction) Level() ConfidenceLevel {
	return ConfidenceLevelFor(e.Confidence)
}

// InvoiceUpload is a file received from the client.
type InvoiceUpload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ProcessInvoiceInput describes an invoice to turn into an expense transaction.
// Manual fields override the extracted values when set.
type ProcessInvoiceInput struct {
	File              InvoiceUpload
	PasswordProtected bool
	Password          string
	Amount            *decimal.Decimal
	Description       *string
	Category          *string
	Date              *time.Time
	SkipExtraction    bool
}

// InvoiceView is what the client receives once an invoice may be displayed.
type InvoiceView struct {
	TransactionID string            `json:"transactionID"`
	Attachment    Attachment        `json:"attachment"`
	Amount        decimal.Decimal   `json:"amount"`
	ActualAmount  decimal.Decimal   `json:"actualAmount"`
	AmountDiffers bool              `json:"amountDiffers"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Date          time.Time         `json:"date"`
	Status        TransactionStatus `json:"status"`
}
