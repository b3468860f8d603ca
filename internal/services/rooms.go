package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
)

type RoomService struct {
	db       *database.DatabaseClient
	gate     *authz.Gate
	store    artifacts.Store
	log      *logger.Logger
	maxBytes int64
}

func NewRoomService(db *database.DatabaseClient, gate *authz.Gate, store artifacts.Store, log *logger.Logger, maxBytes int64) *RoomService {
	return &RoomService{db: db, gate: gate, store: store, log: log.With("component", "rooms"), maxBytes: maxBytes}
}

func (s *RoomService) Create(ctx context.Context, userID, projectID uuid.UUID, req models.CreateRoomRequest) (*models.Room, error) {
	if err := s.gate.Project(ctx, userID, projectID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	roomType, err := normalizeRoomType(req.Type)
	if err != nil {
		return nil, err
	}
	if req.Length <= 0 || req.Width <= 0 || req.Height <= 0 {
		return nil, apperr.Validation("length, width and height must be positive")
	}

	room := &models.Room{
		ProjectID:    projectID,
		Name:         name,
		Type:         roomType,
		Length:       req.Length,
		Width:        req.Width,
		Height:       req.Height,
		Materials:    datatypes.JSONSlice[string](cleanMaterials(req.Materials)),
		AmbientColor: req.AmbientColor,
	}
	if err := s.db.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	s.log.Info("room created", "room_id", room.ID, "project_id", projectID)
	return room, nil
}

func (s *RoomService) List(ctx context.Context, userID, projectID uuid.UUID) ([]models.Room, error) {
	if err := s.gate.Project(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.db.ListRooms(ctx, projectID)
}

func (s *RoomService) Get(ctx context.Context, userID, roomID uuid.UUID) (*models.Room, error) {
	if err := s.gate.Room(ctx, userID, roomID); err != nil {
		return nil, err
	}
	return s.db.GetRoom(ctx, roomID)
}

func (s *RoomService) Update(ctx context.Context, userID, roomID uuid.UUID, req models.UpdateRoomRequest) (*models.Room, error) {
	if err := s.gate.Room(ctx, userID, roomID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Type != nil {
		roomType, err := normalizeRoomType(*req.Type)
		if err != nil {
			return nil, err
		}
		updates["type"] = roomType
	}
	for column, v := range map[string]*float64{"length": req.Length, "width": req.Width, "height": req.Height} {
		if v == nil {
			continue
		}
		if *v <= 0 {
			return nil, apperr.Validation("%s must be positive", column)
		}
		updates[column] = *v
	}
	if req.Materials != nil {
		updates["materials"] = datatypes.JSONSlice[string](cleanMaterials(*req.Materials))
	}
	if req.AmbientColor != nil {
		updates["ambient_color"] = *req.AmbientColor
	}

	if err := s.db.UpdateRoom(ctx, roomID, updates); err != nil {
		return nil, err
	}
	return s.db.GetRoom(ctx, roomID)
}

// Delete removes the room and its designs, then its photo.
func (s *RoomService) Delete(ctx context.Context, userID, roomID uuid.UUID) error {
	if err := s.gate.Room(ctx, userID, roomID); err != nil {
		return err
	}
	room, err := s.db.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.db.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	if room.ImageKey != nil {
		artifacts.DeleteQuietly(ctx, s.store, s.log, *room.ImageKey)
	}
	s.log.Info("room deleted", "room_id", roomID)
	return nil
}

// SetImage stores a new source photo for the room and drops the previous one.
func (s *RoomService) SetImage(ctx context.Context, userID, roomID uuid.UUID, file File) (*models.Room, error) {
	if err := s.gate.Room(ctx, userID, roomID); err != nil {
		return nil, err
	}
	contentType, err := checkImage(file, s.maxBytes)
	if err != nil {
		return nil, err
	}
	room, err := s.db.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Store(ctx, artifacts.RoomImageKey(userID, roomID, contentType), file.Data, contentType)
	if err != nil {
		return nil, apperr.Internal("failed to store room image", err)
	}
	if err := s.db.UpdateRoom(ctx, roomID, map[string]interface{}{"image_url": obj.URL, "image_key": obj.Key}); err != nil {
		artifacts.DeleteQuietly(ctx, s.store, s.log, obj.Key)
		return nil, err
	}
	if room.ImageKey != nil && *room.ImageKey != obj.Key {
		artifacts.DeleteQuietly(ctx, s.store, s.log, *room.ImageKey)
	}
	s.log.Info("room image updated", "room_id", roomID, "key", obj.Key, "bytes", len(file.Data))
	return s.db.GetRoom(ctx, roomID)
}

func normalizeRoomType(raw string) (string, error) {
	roomType := strings.ToUpper(strings.TrimSpace(raw))
	if !models.IsValidRoomType(roomType) {
		return "", apperr.Validation("type must be one of %s", strings.Join(models.RoomTypes, ", "))
	}
	return roomType, nil
}

func cleanMaterials(materials []string) []string {
	out := make([]string, 0, len(materials))
	for _, m := range materials {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
