package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/repos"
	"github.com/bidboard/bidboard-backend/internal/requestdata"
	"github.com/bidboard/bidboard-backend/internal/types"
)

type testEnv struct {
	db          *gorm.DB
	templateSvc TemplateService
	scoreSvc    ScoreService
	rankingSvc  RankingService
	proposalSvc ProposalService
	projectSvc  ProjectService
	reviewerID  uuid.UUID
	ctx         context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Project{},
		&types.Proposal{},
		&types.ScoringTemplate{},
		&types.ScoringCriterion{},
		&types.ProposalScore{},
		&types.ScoreHistory{},
	); err != nil {
		t.Fatalf("auto migration failed: %v", err)
	}

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}

	projectRepo := repos.NewProjectRepo(db, log)
	proposalRepo := repos.NewProposalRepo(db, log)
	templateRepo := repos.NewScoringTemplateRepo(db, log)
	scoreRepo := repos.NewProposalScoreRepo(db, log)
	historyRepo := repos.NewScoreHistoryRepo(db, log)

	reviewer := &types.User{
		Email:     "reviewer@example.com",
		Password:  "hashed",
		FirstName: "Rae",
		LastName:  "Vu",
		Role:      types.RoleReviewer,
	}
	if err := db.Create(reviewer).Error; err != nil {
		t.Fatalf("failed to create reviewer: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: reviewer.ID,
		Role:   reviewer.Role,
	})

	return &testEnv{
		db:          db,
		templateSvc: NewTemplateService(db, log, templateRepo, projectRepo),
		scoreSvc:    NewScoreService(db, log, proposalRepo, templateRepo, scoreRepo, historyRepo),
		rankingSvc:  NewRankingService(db, log, projectRepo, proposalRepo, templateRepo, scoreRepo),
		proposalSvc: NewProposalService(db, log, projectRepo, proposalRepo, scoreRepo),
		projectSvc:  NewProjectService(db, log, projectRepo),
		reviewerID:  reviewer.ID,
		ctx:         ctx,
	}
}

func (e *testEnv) createProject(t *testing.T) *types.Project {
	t.Helper()
	project := &types.Project{
		ClientID: e.reviewerID,
		Title:    "Office Renovation",
		Status:   types.ProjectStatusOpen,
	}
	if err := e.db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func (e *testEnv) createProposal(t *testing.T, projectID uuid.UUID, title string) *types.Proposal {
	t.Helper()
	proposal := &types.Proposal{
		ProjectID:   projectID,
		SubmittedBy: e.reviewerID,
		Title:       title,
		Status:      types.ProposalStatusSubmitted,
	}
	if err := e.db.Create(proposal).Error; err != nil {
		t.Fatalf("failed to create proposal: %v", err)
	}
	return proposal
}

// createStandardTemplate builds the Technical/Budget/Timeline/Team template
// used by most scoring tests (weights 30/25/20/25).
func (e *testEnv) createStandardTemplate(t *testing.T, projectID uuid.UUID) *types.ScoringTemplate {
	t.Helper()
	template, err := e.templateSvc.CreateTemplate(e.ctx, projectID, "Standard Evaluation", []CriterionInput{
		{Name: "Technical", Weight: 30},
		{Name: "Budget", Weight: 25},
		{Name: "Timeline", Weight: 20},
		{Name: "Team", Weight: 25},
	})
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return template
}

func criterionByName(t *testing.T, template *types.ScoringTemplate, name string) *types.ScoringCriterion {
	t.Helper()
	for _, c := range template.Criteria {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("criterion %q not found in template", name)
	return nil
}
