package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTextReader struct {
	text string
	err  error
}

func (r stubTextReader) Supports(fileName, _ string) bool {
	return len(fileName) > 4 && fileName[len(fileName)-4:] == ".pdf"
}

func (r stubTextReader) ReadText(context.Context, []byte) (string, error) {
	return r.text, r.err
}

func TestFileNameHash(t *testing.T) {
	assert.Equal(t, int32(0), services.FileNameHash(""))
	assert.Equal(t, int32(97), services.FileNameHash("a"))
	assert.Equal(t, int32(3105), services.FileNameHash("ab"))
	assert.Equal(t, int32(-587692927), services.FileNameHash("agua_marco.pdf"), "wraps on overflow")
}

func TestOCRService_Extract(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC) }
	svc := services.NewOCRService(services.WithOCRClock(clock))

	tests := []struct {
		file        string
		amount      int64
		category    string
		description string
		confidence  float64
		level       domain.ConfidenceLevel
	}{
		{"a", 147, "Outros", "Fatura extraída de a", 0.75, domain.ConfidenceLow},
		{"ab", 1155, "Outros", "Fatura extraída de ab", 0.75, domain.ConfidenceLow},
		{"fatura_bradesco.pdf", 551, "Cartão de Crédito", "Fatura Cartão Bradesco - Diversos estabelecimentos", 0.95, domain.ConfidenceHigh},
		{"conta_luz.pdf", 71, "Utilidades", "Conta de Energia Elétrica", 0.92, domain.ConfidenceHigh},
		{"agua_marco.pdf", 37, "Utilidades", "Conta de Água e Esgoto", 0.88, domain.ConfidenceMedium},
		{"internet.pdf", 125, "Telecomunicações", "Fatura Internet/Telefone", 0.90, domain.ConfidenceHigh},
		{"boleto.2026.pdf", 1535, "Cartão de Crédito", "Fatura extraída de boleto", 0.88, domain.ConfidenceMedium},
		{"scan.png", 746, "Outros", "Fatura extraída de scan.png", 0.75, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got, err := svc.Extract(context.Background(), domain.InvoiceUpload{FileName: tt.file})
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.amount).Equal(got.Amount), "amount %s", got.Amount)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.description, got.Description)
			assert.Equal(t, tt.confidence, got.Confidence)
			assert.Equal(t, tt.level, got.Level())
			assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), got.Date)
			assert.Nil(t, got.TextAmount)
		})
	}
}

func TestOCRService_Deterministic(t *testing.T) {
	svc := services.NewOCRService()
	first, err := svc.Extract(context.Background(), domain.InvoiceUpload{FileName: "Fatura-Outubro.pdf"})
	require.NoError(t, err)
	second, err := svc.Extract(context.Background(), domain.InvoiceUpload{FileName: "Fatura-Outubro.pdf"})
	require.NoError(t, err)
	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, services.ValidateExtractedAmount(first.Amount))
}

func TestOCRService_TextLayerAmount(t *testing.T) {
	svc := services.NewOCRService(services.WithDocumentTextReader(stubTextReader{text: "Total a pagar: R$ 1.234,56"}))

	got, err := svc.Extract(context.Background(), domain.InvoiceUpload{FileName: "fatura.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	require.NotNil(t, got.TextAmount)
	assert.Equal(t, "1234.56", got.TextAmount.String())
	assert.False(t, got.Amount.Equal(*got.TextAmount), "the text amount never replaces the simulated one")

	unreadable := services.NewOCRService(services.WithDocumentTextReader(stubTextReader{err: errors.New("image only")}))
	got, err = unreadable.Extract(context.Background(), domain.InvoiceUpload{FileName: "fatura.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Nil(t, got.TextAmount)
}

func TestValidateExtractedAmount(t *testing.T) {
	assert.True(t, services.ValidateExtractedAmount(decimal.RequireFromString("0.01")))
	assert.True(t, services.ValidateExtractedAmount(decimal.RequireFromString("99999.99")))
	assert.False(t, services.ValidateExtractedAmount(decimal.Zero))
	assert.False(t, services.ValidateExtractedAmount(decimal.NewFromInt(-1)))
	assert.False(t, services.ValidateExtractedAmount(decimal.NewFromInt(100000)))
}

func TestExtractMoneyFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Valor: R$ 1.234,56", "1234.56", true},
		{"R$89,90 vencimento", "89.9", true},
		{"total 12.345.678,00", "12345678", true},
		{"sem valores", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := services.ExtractMoneyFromText(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
			}
		})
	}
}
