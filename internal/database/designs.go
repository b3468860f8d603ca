package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/models"
)

var (
	openStatuses = []string{string(models.DesignStatusPending), string(models.DesignStatusProcessing)}
	pendingOnly  = []string{string(models.DesignStatusPending)}
)

func (c *DatabaseClient) CreateDesign(ctx context.Context, design *models.Design) error {
	return translate(c.db.WithContext(ctx).Create(design).Error, "design", "create")
}

func (c *DatabaseClient) GetDesign(ctx context.Context, designID uuid.UUID) (*models.Design, error) {
	var design models.Design
	if err := c.db.WithContext(ctx).First(&design, "id = ?", designID).Error; err != nil {
		return nil, translate(err, "design", "load")
	}
	return &design, nil
}

func (c *DatabaseClient) MarkDesignProcessing(ctx context.Context, designID uuid.UUID) error {
	return c.transitionDesign(ctx, designID, pendingOnly, models.DesignStatusProcessing, map[string]interface{}{})
}

func (c *DatabaseClient) MarkDesignCompleted(ctx context.Context, designID uuid.UUID, result models.DesignResult) error {
	return c.transitionDesign(ctx, designID, openStatuses, models.DesignStatusCompleted, map[string]interface{}{
		"image_url":       result.ImageURL,
		"prompt":          result.Prompt,
		"metadata":        datatypes.JSONMap(result.Metadata),
		"processing_time": result.ProcessingTime,
		"error_message":   nil,
	})
}

func (c *DatabaseClient) MarkDesignFailed(ctx context.Context, designID uuid.UUID, processingTime int64, message string) error {
	return c.transitionDesign(ctx, designID, openStatuses, models.DesignStatusFailed, map[string]interface{}{
		"processing_time": processingTime,
		"error_message":   message,
	})
}

// transitionDesign moves a design into status only while it is in one of from.
// A terminal row is never rewritten.
func (c *DatabaseClient) transitionDesign(ctx context.Context, designID uuid.UUID, from []string, status models.DesignStatus, updates map[string]interface{}) error {
	updates["status"] = string(status)
	updates["updated_at"] = time.Now()

	res := c.db.WithContext(ctx).
		Model(&models.Design{}).
		Where("id = ? AND status IN ?", designID, from).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "design", "update")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var current models.Design
	if err := c.db.WithContext(ctx).Select("status").First(&current, "id = ?", designID).Error; err != nil {
		return translate(err, "design", "load")
	}
	return apperr.InvalidTransition("design %s is %s and cannot move to %s", designID, current.Status, status)
}

// ListDesigns returns designs whose room belongs to one of userID's projects, newest first.
func (c *DatabaseClient) ListDesigns(ctx context.Context, userID uuid.UUID, filter models.DesignFilter, page, limit int) ([]models.Design, int64, error) {
	scoped := func() *gorm.DB {
		q := c.db.WithContext(ctx).
			Model(&models.Design{}).
			Joins("JOIN rooms ON rooms.id = designs.room_id").
			Joins("JOIN projects ON projects.id = rooms.project_id").
			Where("projects.user_id = ?", userID)
		if filter.RoomID != nil {
			q = q.Where("designs.room_id = ?", *filter.RoomID)
		}
		if filter.Status != nil {
			q = q.Where("designs.status = ?", string(*filter.Status))
		}
		if filter.AIProvider != nil {
			q = q.Where("designs.ai_provider = ?", *filter.AIProvider)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "designs", "count")
	}

	var designs []models.Design
	err := scoped().
		Select("designs.*").
		Order("designs.created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&designs).Error
	if err != nil {
		return nil, 0, translate(err, "designs", "list")
	}
	return designs, total, nil
}

func (c *DatabaseClient) DeleteDesign(ctx context.Context, designID uuid.UUID) error {
	res := c.db.WithContext(ctx).Delete(&models.Design{}, "id = ?", designID)
	if res.Error != nil {
		return translate(res.Error, "design", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "design", "delete")
	}
	return nil
}

// ListStaleDesigns returns up to limit designs that have sat in PENDING or PROCESSING since before cutoff.
func (c *DatabaseClient) ListStaleDesigns(ctx context.Context, cutoff time.Time, limit int) ([]models.Design, error) {
	var designs []models.Design
	err := c.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", openStatuses, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&designs).Error
	if err != nil {
		return nil, translate(err, "designs", "list")
	}
	return designs, nil
}
