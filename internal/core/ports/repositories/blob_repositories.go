package repositories

import (
	"context"
	"io"
)

// InvoiceFileStore stores uploaded invoice files and hands back a URL to reach them.
type InvoiceFileStore interface {
	// Put writes the object at path and returns its public URL.
	Put(ctx context.Context, path string, contentType string, body io.Reader) (string, error)
}

// DocumentTextReader reads the embedded text layer of an uploaded document.
type DocumentTextReader interface {
	// Supports reports whether the reader understands the given file.
	Supports(fileName string, contentType string) bool

	// ReadText returns the plain text of the document.
	ReadText(ctx context.Context, content []byte) (string, error)
}
