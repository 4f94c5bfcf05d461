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

type ProposalService interface {
	CreateProposal(ctx context.Context, projectID uuid.UUID, title, summary string, bidAmount float64) (*types.Proposal, error)
	GetProposal(ctx context.Context, id uuid.UUID) (*types.Proposal, error)
	ListProposalsForProject(ctx context.Context, projectID uuid.UUID) ([]*types.Proposal, error)
	DecideProposal(ctx context.Context, id uuid.UUID, status string) (*types.Proposal, error)
}

type proposalService struct {
	db           *gorm.DB
	log          *logger.Logger
	projectRepo  repos.ProjectRepo
	proposalRepo repos.ProposalRepo
	scoreRepo    repos.ProposalScoreRepo
}

func NewProposalService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, proposalRepo repos.ProposalRepo, scoreRepo repos.ProposalScoreRepo) ProposalService {
	serviceLog := log.With("service", "ProposalService")
	return &proposalService{
		db:           db,
		log:          serviceLog,
		projectRepo:  projectRepo,
		proposalRepo: proposalRepo,
		scoreRepo:    scoreRepo,
	}
}

func (ps *proposalService) CreateProposal(ctx context.Context, projectID uuid.UUID, title, summary string, bidAmount float64) (*types.Proposal, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}
	if title == "" {
		return nil, fmt.Errorf("a title is required to submit a proposal")
	}
	if bidAmount < 0 {
		return nil, fmt.Errorf("bid amount cannot be negative")
	}

	projects, err := ps.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, fmt.Errorf("error fetching project: %w", err)
	}
	if len(projects) == 0 {
		return nil, scoring.NewError(scoring.KindNotFound, "project %s does not exist", projectID)
	}
	if projects[0].Status != types.ProjectStatusOpen {
		return nil, fmt.Errorf("project %s is closed for proposals", projectID)
	}

	proposal := &types.Proposal{
		ProjectID:   projectID,
		SubmittedBy: rd.UserID,
		Title:       title,
		Summary:     summary,
		BidAmount:   bidAmount,
		Status:      types.ProposalStatusSubmitted,
	}
	if _, err := ps.proposalRepo.Create(ctx, nil, []*types.Proposal{proposal}); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return proposal, nil
}

func (ps *proposalService) GetProposal(ctx context.Context, id uuid.UUID) (*types.Proposal, error) {
	proposals, err := ps.proposalRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("error fetching proposal: %w", err)
	}
	if len(proposals) == 0 {
		return nil, scoring.NewError(scoring.KindNotFound, "proposal %s does not exist", id)
	}
	return proposals[0], nil
}

func (ps *proposalService) ListProposalsForProject(ctx context.Context, projectID uuid.UUID) ([]*types.Proposal, error) {
	return ps.proposalRepo.GetByProjectID(ctx, nil, projectID)
}

// DecideProposal accepts or rejects a proposal. Existing scores are flagged
// final in the same transaction; later edits still go through but carry the
// locked-proposal warning.
func (ps *proposalService) DecideProposal(ctx context.Context, id uuid.UUID, status string) (*types.Proposal, error) {
	if status != types.ProposalStatusAccepted && status != types.ProposalStatusRejected {
		return nil, fmt.Errorf("decision status must be %q or %q", types.ProposalStatusAccepted, types.ProposalStatusRejected)
	}

	proposal, err := ps.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.proposalRepo.UpdateStatus(ctx, tx, id, status); err != nil {
			return fmt.Errorf("failed to update proposal status: %w", err)
		}
		if err := ps.scoreRepo.MarkFinalByProposalID(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to finalize proposal scores: %w", err)
		}
		return nil
	}); err != nil {
		ps.log.Warn("DecideProposal transaction error", "error", err)
		return nil, err
	}

	proposal.Status = status
	return proposal, nil
}
