package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"interior-design-backend/internal/artifacts"
)

// objectAPI is the slice of the storage-go client the adapter uses.
type objectAPI interface {
	UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
	RemoveFile(bucketID string, paths []string) ([]storage.FileUploadResponse, error)
}

// StorageClient stores artifacts in a public Supabase Storage bucket.
type StorageClient struct {
	client  objectAPI
	bucket  string
	baseURL string
}

func NewStorageClient(client *Client) *StorageClient {
	return newStorageClient(client.Supabase.Storage, client.Config.SupabaseURL, client.Config.SupabaseStorageBucket)
}

func newStorageClient(api objectAPI, supabaseURL, bucket string) *StorageClient {
	return &StorageClient{
		client:  api,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(supabaseURL, "/"),
	}
}

var _ artifacts.Store = (*StorageClient)(nil)

func (s *StorageClient) Store(ctx context.Context, key string, data []byte, contentType string) (*artifacts.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &artifacts.Object{URL: s.GetPublicURL(key), Key: key}, nil
}

func (s *StorageClient) GetPublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key)
}

func (s *StorageClient) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
