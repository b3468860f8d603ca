package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/generation"
	"interior-design-backend/internal/models"
)

type DesignsHandler struct {
	job *generation.Job
}

func NewDesignsHandler(job *generation.Job) *DesignsHandler {
	return &DesignsHandler{job: job}
}

// CreateDesign godoc
// @Summary     Start generating a design for a room
// @Description Creates a PENDING design and returns immediately. Poll GET /designs/{id} for the result.
// @Tags        designs
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       request body models.CreateDesignRequest true "Generation request"
// @Success     202 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /designs [post]
func (h *DesignsHandler) CreateDesign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	// Validate room ID
	if strings.TrimSpace(req.RoomID) == "" {
		respondError(c, apperr.Validation("roomId is required"))
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		respondError(c, apperr.Validation("invalid room id"))
		return
	}

	// Record the design and start generation in the background
	design, err := h.job.Initiate(c.Request.Context(), userID, generation.InitiateInput{
		RoomID:       roomID,
		CustomPrompt: req.CustomPrompt,
		AIProvider:   req.AIProvider,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, models.NewDesignResponse(design))
}

// ListDesigns godoc
// @Summary     List the caller's designs
// @Tags        designs
// @Security    Bearer
// @Produce     json
// @Param       roomId     query string false "Room ID"
// @Param       status     query string false "PENDING, PROCESSING, COMPLETED or FAILED"
// @Param       aiProvider query string false "OPENAI or REPLICATE"
// @Param       page       query int    false "Page number"
// @Param       limit      query int    false "Page size (max 100)"
// @Success     200 {object} models.PageResponse[models.DesignResponse]
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs [get]
func (h *DesignsHandler) ListDesigns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q models.DesignListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	filter, err := designFilter(q)
	if err != nil {
		respondError(c, err)
		return
	}

	designs, pagination, err := h.job.List(c.Request.Context(), userID, filter, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageItems(designs, models.NewDesignResponse, pagination))
}

// GetDesign godoc
// @Summary     Get a design
// @Tags        designs
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Design ID"
// @Success     200 {object} models.DesignResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{id} [get]
func (h *DesignsHandler) GetDesign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	designID, ok := pathID(c, "id", "design")
	if !ok {
		return
	}

	design, err := h.job.Get(c.Request.Context(), designID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewDesignResponse(design))
}

// RegenerateDesign godoc
// @Summary     Generate a new design from an existing one
// @Description Creates a new PENDING design for the same room. The original design is not modified.
// @Tags        designs
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       id      path string                         true  "Design ID"
// @Param       request body models.RegenerateDesignRequest false "Overrides"
// @Success     202 {object} models.DesignResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Router      /designs/{id}/regenerate [post]
func (h *DesignsHandler) RegenerateDesign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	designID, ok := pathID(c, "id", "design")
	if !ok {
		return
	}
	// The body is optional.
	var req models.RegenerateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	design, err := h.job.Regenerate(c.Request.Context(), designID, userID, generation.Overrides{
		CustomPrompt: req.CustomPrompt,
		AIProvider:   req.AIProvider,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, models.NewDesignResponse(design))
}

// DeleteDesign godoc
// @Summary     Delete a design
// @Tags        designs
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Design ID"
// @Success     200 {object} models.MessageResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /designs/{id} [delete]
func (h *DesignsHandler) DeleteDesign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	designID, ok := pathID(c, "id", "design")
	if !ok {
		return
	}

	if err := h.job.Delete(c.Request.Context(), designID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "design deleted"})
}

func designFilter(q models.DesignListQuery) (models.DesignFilter, error) {
	var filter models.DesignFilter
	if raw := strings.TrimSpace(q.RoomID); raw != "" {
		roomID, err := uuid.Parse(raw)
		if err != nil {
			return filter, apperr.Validation("invalid room id")
		}
		filter.RoomID = &roomID
	}
	if raw := strings.ToUpper(strings.TrimSpace(q.Status)); raw != "" {
		if !models.IsValidDesignStatus(raw) {
			return filter, apperr.Validation("invalid status %q", q.Status)
		}
		status := models.DesignStatus(raw)
		filter.Status = &status
	}
	if raw := strings.ToUpper(strings.TrimSpace(q.AIProvider)); raw != "" {
		if !models.IsValidAIProvider(raw) {
			return filter, apperr.Validation("invalid aiProvider %q", q.AIProvider)
		}
		filter.AIProvider = &raw
	}
	return filter, nil
}
