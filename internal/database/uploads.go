package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interior-design-backend/internal/models"
)

func (c *DatabaseClient) CreateUpload(ctx context.Context, upload *models.Upload) error {
	return translate(c.db.WithContext(ctx).Create(upload).Error, "upload", "create")
}

func (c *DatabaseClient) GetUpload(ctx context.Context, uploadID uuid.UUID) (*models.Upload, error) {
	var upload models.Upload
	if err := c.db.WithContext(ctx).First(&upload, "id = ?", uploadID).Error; err != nil {
		return nil, translate(err, "upload", "load")
	}
	return &upload, nil
}

func (c *DatabaseClient) ListUploads(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Upload, int64, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(&models.Upload{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "uploads", "count")
	}

	var uploads []models.Upload
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&uploads).Error
	if err != nil {
		return nil, 0, translate(err, "uploads", "list")
	}
	return uploads, total, nil
}

func (c *DatabaseClient) DeleteUpload(ctx context.Context, uploadID uuid.UUID) error {
	res := c.db.WithContext(ctx).Delete(&models.Upload{}, "id = ?", uploadID)
	if res.Error != nil {
		return translate(res.Error, "upload", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "upload", "delete")
	}
	return nil
}
