package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/models"
	"interior-design-backend/internal/services"
)

type UploadsHandler struct {
	uploads  *services.UploadService
	maxBytes int64
}

func NewUploadsHandler(uploads *services.UploadService, maxBytes int64) *UploadsHandler {
	return &UploadsHandler{uploads: uploads, maxBytes: maxBytes}
}

// CreateUpload godoc
// @Summary     Upload an image
// @Description Stores a JPEG, PNG or WebP image, optionally attached to a room the caller owns.
// @Tags        uploads
// @Security    Bearer
// @Accept      multipart/form-data
// @Produce     json
// @Param       file   formData file   true  "Image file"
// @Param       roomId formData string false "Room ID"
// @Success     201 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /uploads [post]
func (h *UploadsHandler) CreateUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	file, ok := readImage(c, h.maxBytes)
	if !ok {
		return
	}

	// Optional room association
	var roomID *uuid.UUID
	if raw := strings.TrimSpace(c.PostForm("roomId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperr.Validation("invalid room id"))
			return
		}
		roomID = &id
	}

	upload, err := h.uploads.Create(c.Request.Context(), userID, roomID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewUploadResponse(upload))
}

// ListUploads godoc
// @Summary     List the caller's uploads
// @Tags        uploads
// @Security    Bearer
// @Produce     json
// @Param       page  query int false "Page number"
// @Param       limit query int false "Page size (max 100)"
// @Success     200 {object} models.PageResponse[models.UploadResponse]
// @Router      /uploads [get]
func (h *UploadsHandler) ListUploads(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	uploads, pagination, err := h.uploads.List(c.Request.Context(), userID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageItems(uploads, models.NewUploadResponse, pagination))
}

// GetUpload godoc
// @Summary     Get an upload
// @Tags        uploads
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Upload ID"
// @Success     200 {object} models.UploadResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /uploads/{id} [get]
func (h *UploadsHandler) GetUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	uploadID, ok := pathID(c, "id", "upload")
	if !ok {
		return
	}

	upload, err := h.uploads.Get(c.Request.Context(), userID, uploadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUploadResponse(upload))
}

// DeleteUpload godoc
// @Summary     Delete an upload
// @Tags        uploads
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Upload ID"
// @Success     200 {object} models.MessageResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /uploads/{id} [delete]
func (h *UploadsHandler) DeleteUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	uploadID, ok := pathID(c, "id", "upload")
	if !ok {
		return
	}

	if err := h.uploads.Delete(c.Request.Context(), userID, uploadID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "upload deleted"})
}
