package supabase

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage "github.com/supabase-community/storage-go"
)

type fakeObjects struct {
	uploaded    map[string][]byte
	contentType string
	removed     []string
	removeErr   error
}

func (f *fakeObjects) UploadFile(bucketID, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error) {
	raw, _ := io.ReadAll(data)
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[bucketID+"/"+relativePath] = raw
	if len(fileOptions) > 0 && fileOptions[0].ContentType != nil {
		f.contentType = *fileOptions[0].ContentType
	}
	return storage.FileUploadResponse{}, nil
}

func (f *fakeObjects) RemoveFile(bucketID string, paths []string) ([]storage.FileUploadResponse, error) {
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	f.removed = append(f.removed, paths...)
	return nil, nil
}

func TestStorageClient_StoreReturnsPublicURL(t *testing.T) {
	fake := &fakeObjects{}
	client := newStorageClient(fake, "https://proj.supabase.co/", "room-images")

	obj, err := client.Store(context.Background(), "users/u1/uploads/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/room-images/users/u1/uploads/a.jpg", obj.URL)
	assert.Equal(t, "users/u1/uploads/a.jpg", obj.Key)
	assert.Equal(t, []byte("jpeg"), fake.uploaded["room-images/users/u1/uploads/a.jpg"])
	assert.Equal(t, "image/jpeg", fake.contentType)
}

func TestStorageClient_Delete(t *testing.T) {
	fake := &fakeObjects{}
	client := newStorageClient(fake, "https://proj.supabase.co", "room-images")

	require.NoError(t, client.Delete(context.Background(), "k1"))
	assert.Equal(t, []string{"k1"}, fake.removed)

	fake.removeErr = errors.New("object locked")
	err := client.Delete(context.Background(), "k2")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "object locked")
}

func TestStorageClient_CancelledContext(t *testing.T) {
	client := newStorageClient(&fakeObjects{}, "https://proj.supabase.co", "room-images")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Store(ctx, "k", []byte("x"), "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}
