// Package artifacts defines the binary object store used for room photos and generated images.
package artifacts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"interior-design-backend/internal/logger"
)

// Object identifies a stored artifact. Key is what Delete takes.
type Object struct {
	URL string
	Key string
}

type Store interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// UploadKey is where a user's photo lives: users/{user}/uploads/{id}{ext}.
func UploadKey(userID, uploadID uuid.UUID, contentType string) string {
	return fmt.Sprintf("users/%s/uploads/%s%s", userID, uploadID, ExtensionFor(contentType))
}

// RoomImageKey is where a room's source photo lives.
func RoomImageKey(userID, roomID uuid.UUID, contentType string) string {
	return fmt.Sprintf("users/%s/rooms/%s/%s%s", userID, roomID, uuid.NewString(), ExtensionFor(contentType))
}

// ExtensionFor maps a sniffed image content type to a file extension, or "" when unknown.
func ExtensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ""
}

// GeneratedKey is where provider output that arrives inline is persisted.
func GeneratedKey(ext string) string {
	return fmt.Sprintf("generated/%s%s", uuid.NewString(), ext)
}

// DeleteQuietly removes key and logs instead of failing. Used where the caller's own work must not
// be blocked by storage cleanup.
func DeleteQuietly(ctx context.Context, store Store, log *logger.Logger, key string) {
	if store == nil || key == "" {
		return
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Warn("artifact delete failed", "key", key, "error", err)
	}
}
