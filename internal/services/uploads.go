package services

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
)

// File is an uploaded image already read into memory.
type File struct {
	Filename string
	Data     []byte
}

type UploadService struct {
	db       *database.DatabaseClient
	gate     *authz.Gate
	store    artifacts.Store
	log      *logger.Logger
	maxBytes int64
}

func NewUploadService(db *database.DatabaseClient, gate *authz.Gate, store artifacts.Store, log *logger.Logger, maxBytes int64) *UploadService {
	return &UploadService{db: db, gate: gate, store: store, log: log.With("component", "uploads"), maxBytes: maxBytes}
}

// Create stores the photo and records it. roomID, when given, must belong to userID.
func (s *UploadService) Create(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID, file File) (*models.Upload, error) {
	if roomID != nil {
		if err := s.gate.Room(ctx, userID, *roomID); err != nil {
			return nil, err
		}
	}
	contentType, err := checkImage(file, s.maxBytes)
	if err != nil {
		return nil, err
	}

	upload := &models.Upload{
		ID:       uuid.New(),
		UserID:   userID,
		RoomID:   roomID,
		Filename: filepath.Base(file.Filename),
		Size:     int64(len(file.Data)),
		MimeType: contentType,
	}
	obj, err := s.store.Store(ctx, artifacts.UploadKey(userID, upload.ID, contentType), file.Data, contentType)
	if err != nil {
		return nil, apperr.Internal("failed to store upload", err)
	}
	upload.URL = obj.URL
	upload.StorageKey = obj.Key

	if err := s.db.CreateUpload(ctx, upload); err != nil {
		artifacts.DeleteQuietly(ctx, s.store, s.log, obj.Key)
		return nil, err
	}
	s.log.Info("upload stored", "upload_id", upload.ID, "user_id", userID, "bytes", upload.Size)
	return upload, nil
}

func (s *UploadService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Upload, models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)
	uploads, total, err := s.db.ListUploads(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return uploads, models.NewPagination(page, limit, total), nil
}

func (s *UploadService) Get(ctx context.Context, userID, uploadID uuid.UUID) (*models.Upload, error) {
	if err := s.gate.Upload(ctx, userID, uploadID); err != nil {
		return nil, err
	}
	return s.db.GetUpload(ctx, uploadID)
}

// Delete removes the record. A storage failure is logged and does not fail the call.
func (s *UploadService) Delete(ctx context.Context, userID, uploadID uuid.UUID) error {
	if err := s.gate.Upload(ctx, userID, uploadID); err != nil {
		return err
	}
	upload, err := s.db.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if err := s.db.DeleteUpload(ctx, uploadID); err != nil {
		return err
	}
	artifacts.DeleteQuietly(ctx, s.store, s.log, upload.StorageKey)
	s.log.Info("upload deleted", "upload_id", uploadID)
	return nil
}

// checkImage sniffs the content type rather than trusting the client header.
func checkImage(file File, maxBytes int64) (string, error) {
	if len(file.Data) == 0 {
		return "", apperr.Validation("file is empty")
	}
	if maxBytes > 0 && int64(len(file.Data)) > maxBytes {
		return "", apperr.Validation("file exceeds %d bytes", maxBytes)
	}
	contentType := strings.TrimSpace(strings.Split(http.DetectContentType(file.Data), ";")[0])
	if !models.IsAllowedImageType(contentType) {
		return "", apperr.Validation("unsupported file type %s, allowed: %s", contentType, strings.Join(models.AllowedImageTypes, ", "))
	}
	return contentType, nil
}
