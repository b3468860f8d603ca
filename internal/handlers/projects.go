package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interior-design-backend/internal/models"
	"interior-design-backend/internal/services"
)

type ProjectsHandler struct {
	projects *services.ProjectService
}

func NewProjectsHandler(projects *services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// CreateProject godoc
// @Summary     Create a project
// @Tags        projects
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       request body models.CreateProjectRequest true "Project"
// @Success     201 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	// Parse request body
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Create project for the authenticated user
	project, err := h.projects.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewProjectResponse(project))
}

// ListProjects godoc
// @Summary     List the caller's projects
// @Tags        projects
// @Security    Bearer
// @Produce     json
// @Param       page  query int false "Page number"
// @Param       limit query int false "Page size (max 100)"
// @Success     200 {object} models.PageResponse[models.ProjectResponse]
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	projects, pagination, err := h.projects.List(c.Request.Context(), userID, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageItems(projects, models.NewProjectResponse, pagination))
}

// GetProject godoc
// @Summary     Get a project with its rooms
// @Tags        projects
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} models.ProjectResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(project))
}

// UpdateProject godoc
// @Summary     Update a project
// @Tags        projects
// @Security    Bearer
// @Accept      json
// @Produce     json
// @Param       id      path string                      true "Project ID"
// @Param       request body models.UpdateProjectRequest true "Fields to change"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{id} [put]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return
	}
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// Apply the update; ownership is checked inside the service
	project, err := h.projects.Update(c.Request.Context(), userID, projectID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(project))
}

// DeleteProject godoc
// @Summary     Delete a project with its rooms, designs and room photos
// @Tags        projects
// @Security    Bearer
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} models.MessageResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id", "project")
	if !ok {
		return
	}

	// Delete project (rooms and designs cascade, photos are removed afterwards)
	if err := h.projects.Delete(c.Request.Context(), userID, projectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "project deleted"})
}
