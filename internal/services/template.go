package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/repos"
	"github.com/bidboard/bidboard-backend/internal/requestdata"
	"github.com/bidboard/bidboard-backend/internal/scoring"
	"github.com/bidboard/bidboard-backend/internal/types"
)

// CriterionInput is one weighted criterion as supplied by the client.
// OrderIndex is assigned from slice position.
type CriterionInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, projectID uuid.UUID, name string, criteria []CriterionInput) (*types.ScoringTemplate, error)
	UpdateCriteria(ctx context.Context, templateID uuid.UUID, criteria []CriterionInput) (*types.ScoringTemplate, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.ScoringTemplate, error)
}

type templateService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo repos.ScoringTemplateRepo
	projectRepo  repos.ProjectRepo
}

func NewTemplateService(db *gorm.DB, log *logger.Logger, templateRepo repos.ScoringTemplateRepo, projectRepo repos.ProjectRepo) TemplateService {
	serviceLog := log.With("service", "TemplateService")
	return &templateService{
		db:           db,
		log:          serviceLog,
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
	}
}

func validateCriteriaInput(criteria []CriterionInput) error {
	weights := make([]float64, 0, len(criteria))
	for _, c := range criteria {
		if c.Name == "" {
			return scoring.NewError(scoring.KindEmptyTemplate, "every criterion requires a name")
		}
		weights = append(weights, c.Weight)
	}
	return scoring.ValidateWeights(weights)
}

func buildCriteria(templateID uuid.UUID, criteria []CriterionInput) []*types.ScoringCriterion {
	rows := make([]*types.ScoringCriterion, 0, len(criteria))
	for i, c := range criteria {
		rows = append(rows, &types.ScoringCriterion{
			TemplateID:  templateID,
			Name:        c.Name,
			Description: c.Description,
			Weight:      c.Weight,
			OrderIndex:  i,
		})
	}
	return rows
}

func (ts *templateService) CreateTemplate(ctx context.Context, projectID uuid.UUID, name string, criteria []CriterionInput) (*types.ScoringTemplate, error) {
	if err := validateCriteriaInput(criteria); err != nil {
		return nil, err
	}
	if name == "" {
		name = "Proposal Scoring"
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	projects, err := ts.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("error fetching project: %w", err)
	}
	if len(projects) == 0 {
		return nil, scoring.NewError(scoring.KindNotFound, "project %s does not exist", projectID)
	}

	existing, err := ts.templateRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("error checking existing template: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("project %s already has a scoring template", projectID)
	}

	template := &types.ScoringTemplate{
		ProjectID: projectID,
		Name:      name,
		CreatedBy: rd.UserID,
	}

	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		template.ID = uuid.New()
		template.Criteria = buildCriteria(template.ID, criteria)
		if _, err := ts.templateRepo.Create(ctx, tx, template); err != nil {
			return fmt.Errorf("failed to create scoring template: %w", err)
		}
		return nil
	}); err != nil {
		ts.log.Warn("CreateTemplate transaction error", "error", err)
		return nil, err
	}

	return ts.templateRepo.GetByID(ctx, nil, template.ID)
}

func (ts *templateService) UpdateCriteria(ctx context.Context, templateID uuid.UUID, criteria []CriterionInput) (*types.ScoringTemplate, error) {
	if err := validateCriteriaInput(criteria); err != nil {
		return nil, err
	}

	template, err := ts.templateRepo.GetByID(ctx, nil, templateID)
	if err != nil {
		return nil, fmt.Errorf("error fetching template: %w", err)
	}
	if template == nil {
		return nil, scoring.NewError(scoring.KindNotFound, "scoring template %s does not exist", templateID)
	}

	// Weights stay comparable across historical weighted scores only while
	// nothing has been scored against them yet.
	scoreCount, err := ts.templateRepo.ScoreCountForTemplate(ctx, nil, templateID)
	if err != nil {
		return nil, fmt.Errorf("error counting scores for template: %w", err)
	}
	if scoreCount > 0 {
		return nil, scoring.NewError(scoring.KindTemplateLocked, "scoring template %s is locked, %d score(s) already reference it", templateID, scoreCount)
	}

	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ts.templateRepo.ReplaceCriteria(ctx, tx, templateID, buildCriteria(templateID, criteria))
	}); err != nil {
		ts.log.Warn("UpdateCriteria transaction error", "error", err)
		return nil, err
	}

	return ts.templateRepo.GetByID(ctx, nil, templateID)
}

func (ts *templateService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.ScoringTemplate, error) {
	template, err := ts.templateRepo.GetByID(ctx, nil, templateID)
	if err != nil {
		return nil, fmt.Errorf("error fetching template: %w", err)
	}
	if template == nil {
		return nil, scoring.NewError(scoring.KindNotFound, "scoring template %s does not exist", templateID)
	}
	return template, nil
}
