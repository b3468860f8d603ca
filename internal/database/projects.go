package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interior-design-backend/internal/models"
)

func (c *DatabaseClient) CreateProject(ctx context.Context, project *models.Project) error {
	return translate(c.db.WithContext(ctx).Omit("Rooms").Create(project).Error, "project", "create")
}

// GetProject loads a project together with its rooms, oldest first.
func (c *DatabaseClient) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := c.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("rooms.created_at ASC") }).
		First(&project, "id = ?", projectID).Error
	if err != nil {
		return nil, translate(err, "project", "load")
	}
	return &project, nil
}

func (c *DatabaseClient) ListProjects(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Project, int64, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(&models.Project{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "projects", "count")
	}

	var projects []models.Project
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&projects).Error
	if err != nil {
		return nil, 0, translate(err, "projects", "list")
	}
	return projects, total, nil
}

func (c *DatabaseClient) UpdateProject(ctx context.Context, projectID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	res := c.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "project", "update")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "project", "update")
	}
	return nil
}

// DeleteProject removes the project; rooms and their designs go with it through the foreign keys.
func (c *DatabaseClient) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	res := c.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", projectID)
	if res.Error != nil {
		return translate(res.Error, "project", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "project", "delete")
	}
	return nil
}
