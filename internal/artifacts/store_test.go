package artifacts_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/logger"
)

func TestKeys(t *testing.T) {
	userID, uploadID, roomID := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, "users/"+userID.String()+"/uploads/"+uploadID.String()+".jpg", artifacts.UploadKey(userID, uploadID, "image/jpeg"))
	roomKey := artifacts.RoomImageKey(userID, roomID, "image/webp")
	assert.True(t, strings.HasPrefix(roomKey, "users/"+userID.String()+"/rooms/"+roomID.String()+"/"))
	assert.True(t, strings.HasSuffix(roomKey, ".webp"))
	assert.True(t, strings.HasSuffix(artifacts.GeneratedKey(".png"), ".png"))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", artifacts.ExtensionFor("image/jpeg"))
	assert.Equal(t, ".png", artifacts.ExtensionFor("image/png; charset=binary"))
	assert.Equal(t, ".webp", artifacts.ExtensionFor("IMAGE/WEBP"))
	assert.Equal(t, "", artifacts.ExtensionFor("application/octet-stream"))
}

func TestMemoryStore_StoreAndDelete(t *testing.T) {
	store := artifacts.NewMemoryStore("https://cdn.test/")
	ctx := context.Background()

	obj, err := store.Store(ctx, "a/b.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/a/b.png", obj.URL)
	assert.Equal(t, "a/b.png", obj.Key)
	assert.True(t, store.Has("a/b.png"))

	require.NoError(t, store.Delete(ctx, "a/b.png"))
	assert.False(t, store.Has("a/b.png"))
}

func TestDeleteQuietly_SwallowsFailure(t *testing.T) {
	store := artifacts.NewMemoryStore("https://cdn.test")
	ctx := context.Background()
	_, err := store.Store(ctx, "k", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	store.DeleteErr = errors.New("bucket unavailable")

	assert.NotPanics(t, func() { artifacts.DeleteQuietly(ctx, store, logger.Nop(), "k") })
	assert.True(t, store.Has("k"))
	assert.NotPanics(t, func() { artifacts.DeleteQuietly(ctx, nil, logger.Nop(), "k") })
}
