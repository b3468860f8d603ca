package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/logger"
)

// BucketStore keeps artifacts in a single Google Cloud Storage bucket served publicly.
type BucketStore struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewBucketStore uses application default credentials unless opts say otherwise.
func NewBucketStore(ctx context.Context, log *logger.Logger, bucket, publicBaseURL string, opts ...option.ClientOption) (*BucketStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket name")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &BucketStore{
		log:           log.With("component", "gcs"),
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

var _ artifacts.Store = (*BucketStore)(nil)

func (b *BucketStore) Store(ctx context.Context, key string, data []byte, contentType string) (*artifacts.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}

	b.log.Debug("stored object", "bucket", b.bucket, "key", key, "bytes", len(data))
	return &artifacts.Object{URL: PublicURL(b.publicBaseURL, b.bucket, key), Key: key}, nil
}

// Delete treats an already missing object as deleted.
func (b *BucketStore) Delete(ctx context.Context, key string) error {
	err := b.client.Bucket(b.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %s: %w", key, err)
	}
	return nil
}

func (b *BucketStore) Close() error {
	return b.client.Close()
}

// PublicURL builds {base}/{bucket}/{key}, or {base}/{key} when base is a CDN domain for the bucket.
func PublicURL(base, bucket, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if base == "" || base == "https://storage.googleapis.com" {
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, escaped)
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), escaped)
}
