// Package pdftext reads the text layer of uploaded PDF invoices.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/ledongthuc/pdf"
)

// Reader extracts text row by row from PDF documents.
type Reader struct{}

var _ portsrepo.DocumentTextReader = Reader{}

// NewReader creates a PDF text reader.
func NewReader() Reader {
	return Reader{}
}

func (Reader) Supports(fileName string, contentType string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf") ||
		strings.HasPrefix(strings.ToLower(contentType), "application/pdf")
}

// ReadText returns the text of every page joined by blank lines. Image-only PDFs
// produce an empty string.
func (Reader) ReadText(ctx context.Context, content []byte) (text string, err error) {
	// the pdf library panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return strings.Join(pages, "\n\n"), nil
}
