package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/repos"
	"github.com/bidboard/bidboard-backend/internal/requestdata"
	"github.com/bidboard/bidboard-backend/internal/scoring"
	"github.com/bidboard/bidboard-backend/internal/types"
)

type ProjectService interface {
	CreateProject(ctx context.Context, title, description string, deadline *time.Time) (*types.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	CloseProject(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{db: db, log: serviceLog, projectRepo: projectRepo}
}

func (ps *projectService) CreateProject(ctx context.Context, title, description string, deadline *time.Time) (*types.Project, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	if title == "" {
		return nil, fmt.Errorf("a title is required to create a project")
	}

	project := &types.Project{
		ClientID:    rd.UserID,
		Title:       title,
		Description: description,
		Status:      types.ProjectStatusOpen,
		Deadline:    deadline,
	}
	if _, err := ps.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (ps *projectService) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	projects, err := ps.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("error fetching project: %w", err)
	}
	if len(projects) == 0 {
		return nil, scoring.NewError(scoring.KindNotFound, "project %s does not exist", id)
	}
	return projects[0], nil
}

func (ps *projectService) ListProjects(ctx context.Context) ([]*types.Project, error) {
	return ps.projectRepo.List(ctx, nil)
}

func (ps *projectService) CloseProject(ctx context.Context, id uuid.UUID) error {
	if _, err := ps.GetProject(ctx, id); err != nil {
		return err
	}
	return ps.projectRepo.UpdateStatus(ctx, nil, id, types.ProjectStatusClosed)
}
