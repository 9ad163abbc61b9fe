package blobstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	goption "google.golang.org/api/option"
	gstorage "google.golang.org/api/storage/v1"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore uploads invoice files to a Google Cloud Storage bucket.
type GCSStore struct {
	svc    *gstorage.Service
	bucket string
}

var _ portsrepo.InvoiceFileStore = (*GCSStore)(nil)

// NewGCSStore creates a store for bucket. With an empty credentialsFile, application
// default credentials are used.
func NewGCSStore(ctx context.Context, bucket string, credentialsFile string) (*GCSStore, error) {
	opts := []goption.ClientOption{goption.WithScopes(gstorage.DevstorageReadWriteScope)}
	if credentialsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credentialsFile))
	}
	svc, err := gstorage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}
	return &GCSStore{svc: svc, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error) {
	name := strings.TrimLeft(objectPath, "/")
	obj := &gstorage.Object{
		Name:         name,
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	}

	stored, err := s.svc.Objects.Insert(s.bucket, obj).Media(body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", name, err)
	}
	return PublicURL(s.bucket, stored.Name), nil
}

// PublicURL returns the public HTTPS URL of an object.
func PublicURL(bucket, name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", gcsPublicHost, bucket, strings.Join(segments, "/"))
}
