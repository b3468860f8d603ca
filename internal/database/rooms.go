package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"interior-design-backend/internal/models"
)

func (c *DatabaseClient) CreateRoom(ctx context.Context, room *models.Room) error {
	return translate(c.db.WithContext(ctx).Omit("Designs").Create(room).Error, "room", "create")
}

func (c *DatabaseClient) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := c.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		return nil, translate(err, "room", "load")
	}
	return &room, nil
}

// GetRoomWithProject loads a room and the project that owns it.
func (c *DatabaseClient) GetRoomWithProject(ctx context.Context, roomID uuid.UUID) (*models.RoomWithOwner, error) {
	room, err := c.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := c.db.WithContext(ctx).First(&project, "id = ?", room.ProjectID).Error; err != nil {
		return nil, translate(err, "project", "load")
	}
	return &models.RoomWithOwner{Room: *room, Project: project}, nil
}

func (c *DatabaseClient) ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := c.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, translate(err, "rooms", "list")
	}
	return rooms, nil
}

func (c *DatabaseClient) UpdateRoom(ctx context.Context, roomID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	res := c.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(updates)
	if res.Error != nil {
		return translate(res.Error, "room", "update")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "room", "update")
	}
	return nil
}

// DeleteRoom removes the room; its designs cascade.
func (c *DatabaseClient) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	res := c.db.WithContext(ctx).Delete(&models.Room{}, "id = ?", roomID)
	if res.Error != nil {
		return translate(res.Error, "room", "delete")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "room", "delete")
	}
	return nil
}
