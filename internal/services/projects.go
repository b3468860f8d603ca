package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"interior-design-backend/internal/apperr"
	"interior-design-backend/internal/artifacts"
	"interior-design-backend/internal/authz"
	"interior-design-backend/internal/database"
	"interior-design-backend/internal/logger"
	"interior-design-backend/internal/models"
)

type ProjectService struct {
	db    *database.DatabaseClient
	gate  *authz.Gate
	store artifacts.Store
	log   *logger.Logger
}

func NewProjectService(db *database.DatabaseClient, gate *authz.Gate, store artifacts.Store, log *logger.Logger) *ProjectService {
	return &ProjectService{db: db, gate: gate, store: store, log: log.With("component", "projects")}
}

func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, req models.CreateProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	style, err := normalizeStyle(req.Style)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		UserID:      userID,
		Name:        name,
		Description: req.Description,
		Style:       style,
	}
	if err := s.db.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	s.log.Info("project created", "project_id", project.ID, "user_id", userID)
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Project, models.Pagination, error) {
	page, limit = models.NormalizePage(page, limit)
	projects, total, err := s.db.ListProjects(ctx, userID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return projects, models.NewPagination(page, limit, total), nil
}

// Get returns the project with its rooms.
func (s *ProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	if err := s.gate.Project(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.db.GetProject(ctx, projectID)
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	if err := s.gate.Project(ctx, userID, projectID); err != nil {
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
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Style != nil {
		style, err := normalizeStyle(*req.Style)
		if err != nil {
			return nil, err
		}
		updates["style"] = style
	}
	if err := s.db.UpdateProject(ctx, projectID, updates); err != nil {
		return nil, err
	}
	return s.db.GetProject(ctx, projectID)
}

// Delete removes the project with its rooms and designs, then clears room photos from storage.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if err := s.gate.Project(ctx, userID, projectID); err != nil {
		return err
	}
	project, err := s.db.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.db.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	for _, room := range project.Rooms {
		if room.ImageKey != nil {
			artifacts.DeleteQuietly(ctx, s.store, s.log, *room.ImageKey)
		}
	}
	s.log.Info("project deleted", "project_id", projectID, "rooms", len(project.Rooms))
	return nil
}

func normalizeStyle(raw string) (string, error) {
	style := strings.ToUpper(strings.TrimSpace(raw))
	if !models.IsValidStyle(style) {
		return "", apperr.Validation("style must be one of %s", strings.Join(models.Styles, ", "))
	}
	return style, nil
}
