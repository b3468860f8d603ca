package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interior-design-backend/internal/models"
	"interior-design-backend/internal/services"
)

type RoomsHandler struct {
	rooms    *services.RoomService
	maxBytes int64
}

func NewRoomsHandler(rooms *services.RoomService, maxBytes int64) *RoomsHandler {
	return &RoomsHandler{rooms: rooms, maxBytes: maxBytes}
}

// CreateRoom godoc
// @Summary     Add a room to a project
// @Tags        rooms
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       id      path string                   true "Project ID"
// @Param       request body models.CreateRoomRequest true "Room"
// @Success     201 {object} models.RoomResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{id}/rooms [post]
func (h *RoomsHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return
	}
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), userID, projectID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewRoomResponse(room))
}

// ListRooms godoc
// @Summary     List the rooms of a project
// @Tags        rooms
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.RoomResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{id}/rooms [get]
func (h *RoomsHandler) ListRooms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	rooms, err := h.rooms.List(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, models.NewRoomResponse(&rooms[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetRoom godoc
// @Summary     Get a room
// @Tags        rooms
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Room ID"
// @Success     200 {object} models.RoomResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /rooms/{id} [get]
func (h *RoomsHandler) GetRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id", "room")
	if !ok {
		return
	}

	room, err := h.rooms.Get(c.Request.Context(), userID, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewRoomResponse(room))
}

// UpdateRoom godoc
// @Summary     Update a room
// @Tags        rooms
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       id      path string                   true "Room ID"
// @Param       request body models.UpdateRoomRequest true "Fields to change"
// @Success     200 {object} models.RoomResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /rooms/{id} [put]
func (h *RoomsHandler) UpdateRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id", "room")
	if !ok {
		return
	}
	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), userID, roomID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewRoomResponse(room))
}

// DeleteRoom godoc
// @Summary     Delete a room and its designs
// @Tags        rooms
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Room ID"
// @Success     200 {object} models.MessageResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /rooms/{id} [delete]
func (h *RoomsHandler) DeleteRoom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id", "room")
	if !ok {
		return
	}

	if err := h.rooms.Delete(c.Request.Context(), userID, roomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "room deleted"})
}

// UploadRoomImage godoc
// @Summary     Set the reference photo of a room
// @Tags        rooms
// @Security    Bearer
// @Accept      multipart/form-data
// @Produce     json
// @Param       id   path     string true "Room ID"
// @Param       file formData file   true "JPEG, PNG or WebP photo"
// @Success     200 {object} models.RoomResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /rooms/{id}/image [post]
func (h *RoomsHandler) UploadRoomImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "id", "room")
	if !ok {
		return
	}
	// Read the uploaded photo
	file, ok := readImage(c, h.maxBytes)
	if !ok {
		return
	}

	// Store the photo and replace any previous one
	room, err := h.rooms.SetImage(c.Request.Context(), userID, roomID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewRoomResponse(room))
}
