// Package blobstore stores uploaded invoice files on a local filesystem or in Google Cloud Storage.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/spf13/afero"
)

// LocalStore writes invoice files under a base directory and serves them over HTTP.
type LocalStore struct {
	fs      afero.Fs
	baseURL string
}

var _ portsrepo.InvoiceFileStore = (*LocalStore)(nil)

// NewLocalStore roots the store at dir on fs. URLs are built as baseURL + "/" + path.
func NewLocalStore(fs afero.Fs, dir string, baseURL string) *LocalStore {
	return &LocalStore{
		fs:      afero.NewBasePathFs(fs, dir),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStore) Put(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error) {
	clean := path.Clean("/" + objectPath)
	if err := s.fs.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("create invoice directory: %w", err)
	}

	f, err := s.fs.Create(clean)
	if err != nil {
		return "", fmt.Errorf("create invoice file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return "", fmt.Errorf("write invoice file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close invoice file: %w", err)
	}

	return s.baseURL + clean, nil
}

// FileSystem exposes the stored files for an HTTP file server.
func (s *LocalStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs)
}
