package database

import (
	"context"

	"github.com/google/uuid"
)

type ownerRow struct {
	UserID uuid.UUID
}

func (c *DatabaseClient) ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	var row ownerRow
	err := c.db.WithContext(ctx).
		Table("projects").
		Select("projects.user_id").
		Where("projects.id = ?", projectID).
		Take(&row).Error
	return row.UserID, translate(err, "project", "load")
}

func (c *DatabaseClient) RoomOwner(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	var row ownerRow
	err := c.db.WithContext(ctx).
		Table("rooms").
		Select("projects.user_id").
		Joins("JOIN projects ON projects.id = rooms.project_id").
		Where("rooms.id = ?", roomID).
		Take(&row).Error
	return row.UserID, translate(err, "room", "load")
}

func (c *DatabaseClient) DesignOwner(ctx context.Context, designID uuid.UUID) (uuid.UUID, error) {
	var row ownerRow
	err := c.db.WithContext(ctx).
		Table("designs").
		Select("projects.user_id").
		Joins("JOIN rooms ON rooms.id = designs.room_id").
		Joins("JOIN projects ON projects.id = rooms.project_id").
		Where("designs.id = ?", designID).
		Take(&row).Error
	return row.UserID, translate(err, "design", "load")
}

func (c *DatabaseClient) UploadOwner(ctx context.Context, uploadID uuid.UUID) (uuid.UUID, error) {
	var row ownerRow
	err := c.db.WithContext(ctx).
		Table("uploads").
		Select("uploads.user_id").
		Where("uploads.id = ?", uploadID).
		Take(&row).Error
	return row.UserID, translate(err, "upload", "load")
}
