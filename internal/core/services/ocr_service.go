package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var maxExtractedAmount = decimal.NewFromInt(100000)

// brlMoneyPattern matches Brazilian formatted amounts such as "R$ 1.234,56".
var brlMoneyPattern = regexp.MustCompile(`(?:R\$?\s*)?(\d{1,3}(?:\.\d{3})*(?:,\d{2})?)`)

// ocrRule is one keyword branch of the simulated extraction.
type ocrRule struct {
	keywords    []string
	modulus     int32 // 0 means the generic 50..2049 range
	offset      int32
	description func(fileName string) string
	category    string
	confidence  float64
}

var ocrRules = []ocrRule{
	{
		keywords:    []string{"bradesco", "cartao"},
		description: constDescription("Fatura Cartão Bradesco - Diversos estabelecimentos"),
		category:    "Cartão de Crédito",
		confidence:  0.95,
	},
	{
		keywords:    []string{"energia", "luz"},
		modulus:     250,
		offset:      50,
		description: constDescription("Conta de Energia Elétrica"),
		category:    "Utilidades",
		confidence:  0.92,
	},
	{
		keywords:    []string{"agua"},
		modulus:     120,
		offset:      30,
		description: constDescription("Conta de Água e Esgoto"),
		category:    "Utilidades",
		confidence:  0.88,
	},
	{
		keywords:    []string{"internet", "telefone"},
		modulus:     120,
		offset:      80,
		description: constDescription("Fatura Internet/Telefone"),
		category:    "Telecomunicações",
		confidence:  0.90,
	},
	{
		keywords: []string{"boleto", "fatura"},
		description: func(fileName string) string {
			return "Fatura extraída de " + strings.SplitN(fileName, ".", 2)[0]
		},
		category:   "Cartão de Crédito",
		confidence: 0.88,
	},
}

var fallbackRule = ocrRule{
	description: func(fileName string) string { return "Fatura extraída de " + fileName },
	category:    "Outros",
	confidence:  0.75,
}

func constDescription(s string) func(string) string {
	return func(string) string { return s }
}

// ocrService simulates invoice OCR. Results depend only on the file name and the date,
// so the same file always yields the same amount.
type ocrService struct {
	BaseService
	textReader portsrepo.DocumentTextReader
}

// OCRServiceOption configures the OCR service.
type OCRServiceOption func(*ocrService)

// WithDocumentTextReader enables money detection in documents that carry a text layer.
func WithDocumentTextReader(r portsrepo.DocumentTextReader) OCRServiceOption {
	return func(s *ocrService) {
		s.textReader = r
	}
}

// WithOCRClock replaces the clock used for the extracted date.
func WithOCRClock(now func() time.Time) OCRServiceOption {
	return func(s *ocrService) {
		s.Now = now
	}
}

// NewOCRService creates the simulated OCR service.
func NewOCRService(opts ...OCRServiceOption) portssvc.OCRSvc {
	s := &ocrService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract builds a deterministic extraction from the file name. When the file has a
// readable text layer, the first money value in it is reported as TextAmount.
func (s *ocrService) Extract(ctx context.Context, upload domain.InvoiceUpload) (*domain.InvoiceExtraction, error) {
	hash := FileNameHash(upload.FileName)
	lower := strings.ToLower(upload.FileName)

	rule := fallbackRule
	for _, r := range ocrRules {
		if containsAny(lower, r.keywords) {
			rule = r
			break
		}
	}

	modulus, offset := rule.modulus, rule.offset
	if modulus == 0 {
		modulus, offset = 2000, 50
	}
	amount := decimal.NewFromInt32(abs32(hash%modulus) + offset)

	result := &domain.InvoiceExtraction{
		FileName:    upload.FileName,
		Amount:      amount,
		Description: rule.description(upload.FileName),
		Date:        domain.NormalizeDate(s.CurrentTime()),
		Category:    rule.category,
		Confidence:  rule.confidence,
	}

	if s.textReader != nil && len(upload.Content) > 0 && s.textReader.Supports(upload.FileName, upload.ContentType) {
		text, err := s.textReader.ReadText(ctx, upload.Content)
		if err != nil {
			s.LogDebug(ctx, "No readable text layer", slog.String("file", upload.FileName), slog.String("error", err.Error()))
		} else if found, ok := ExtractMoneyFromText(text); ok {
			result.TextAmount = &found
		}
	}

	s.LogInfo(ctx, "Invoice data extracted",
		slog.String("file", upload.FileName),
		slog.String("amount", result.Amount.String()),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

// FileNameHash is the 32-bit rolling hash h = h*31 + c over the UTF-16 code units of name,
// wrapping on overflow.
func FileNameHash(name string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(name)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// ValidateExtractedAmount reports whether amount is within (0, 100000).
func ValidateExtractedAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThan(maxExtractedAmount)
}

// ExtractMoneyFromText returns the first Brazilian formatted amount in text.
func ExtractMoneyFromText(text string) (decimal.Decimal, bool) {
	m := brlMoneyPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	clean := strings.ReplaceAll(m[1], ".", "")
	clean = strings.Replace(clean, ",", ".", 1)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
