package blobstore_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/SscSPs/finance_tracker/internal/adapters/blobstore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Put(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := blobstore.NewLocalStore(fs, "/data/invoices", "http://localhost:8080/files/")

	url, err := store.Put(context.Background(), "user-1/1700000000000-fatura.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/user-1/1700000000000-fatura.pdf", url)

	data, err := afero.ReadFile(fs, "/data/invoices/user-1/1700000000000-fatura.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStore_PathStaysInsideRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := blobstore.NewLocalStore(fs, "/data/invoices", "http://localhost/files")

	url, err := store.Put(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/files/etc/passwd", url)

	exists, err := afero.Exists(fs, "/data/invoices/etc/passwd")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStore_FileSystem(t *testing.T) {
	store := blobstore.NewLocalStore(afero.NewMemMapFs(), "/root", "http://localhost/files")
	_, err := store.Put(context.Background(), "u/a.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)

	f, err := store.FileSystem().Open("/u/a.txt")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/invoices/user-1/17-fatura%20luz.pdf",
		blobstore.PublicURL("invoices", "user-1/17-fatura luz.pdf"))
}
