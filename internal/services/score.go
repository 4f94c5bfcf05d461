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

type SubmitScoreInput struct {
	ProposalID  uuid.UUID
	CriterionID uuid.UUID
	RawScore    float64
	Notes       string
}

// ReviseScoreInput carries the requested changes. Nil means "leave as is";
// at least one of NewRawScore/NewNotes must differ from the current row.
type ReviseScoreInput struct {
	ProposalID  uuid.UUID
	CriterionID uuid.UUID
	NewRawScore *float64
	NewNotes    *string
	Reason      string
}

// ScoreResult pairs the written row with the locked-proposal warning. The
// warning never blocks the write; it tells the caller the proposal already
// reached a decided status.
type ScoreResult struct {
	Score                 *types.ProposalScore `json:"score"`
	LockedProposalWarning bool                 `json:"locked_proposal_warning"`
}

type ScoreService interface {
	SubmitScore(ctx context.Context, in SubmitScoreInput) (*ScoreResult, error)
	ReviseScore(ctx context.Context, in ReviseScoreInput) (*ScoreResult, error)
	GetScoreHistory(ctx context.Context, proposalID, criterionID uuid.UUID) ([]*types.ScoreHistory, error)
}

type scoreService struct {
	db           *gorm.DB
	log          *logger.Logger
	proposalRepo repos.ProposalRepo
	templateRepo repos.ScoringTemplateRepo
	scoreRepo    repos.ProposalScoreRepo
	historyRepo  repos.ScoreHistoryRepo
}

func NewScoreService(
	db *gorm.DB,
	log *logger.Logger,
	proposalRepo repos.ProposalRepo,
	templateRepo repos.ScoringTemplateRepo,
	scoreRepo repos.ProposalScoreRepo,
	historyRepo repos.ScoreHistoryRepo,
) ScoreService {
	serviceLog := log.With("service", "ScoreService")
	return &scoreService{
		db:           db,
		log:          serviceLog,
		proposalRepo: proposalRepo,
		templateRepo: templateRepo,
		scoreRepo:    scoreRepo,
		historyRepo:  historyRepo,
	}
}

// resolveCell loads the proposal and verifies the criterion belongs to the
// scoring template of the proposal's project.
func (ss *scoreService) resolveCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) (*types.Proposal, *types.ScoringCriterion, error) {
	proposals, err := ss.proposalRepo.GetByIDs(ctx, tx, []uuid.UUID{proposalID})
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching proposal: %w", err)
	}
	if len(proposals) == 0 {
		return nil, nil, scoring.NewError(scoring.KindNotFound, "proposal %s does not exist", proposalID)
	}
	proposal := proposals[0]

	criterion, err := ss.templateRepo.GetCriterionByID(ctx, tx, criterionID)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching criterion: %w", err)
	}
	if criterion == nil {
		return nil, nil, scoring.NewError(scoring.KindCriterionMismatch, "criterion %s does not exist", criterionID)
	}

	template, err := ss.templateRepo.GetByProjectID(ctx, tx, proposal.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching template: %w", err)
	}
	if template == nil || template.ID != criterion.TemplateID {
		return nil, nil, scoring.NewError(scoring.KindCriterionMismatch, "criterion %s does not belong to the scoring template of project %s", criterionID, proposal.ProjectID)
	}

	return proposal, criterion, nil
}

func (ss *scoreService) SubmitScore(ctx context.Context, in SubmitScoreInput) (*ScoreResult, error) {
	if err := scoring.ValidateRawScore(in.RawScore); err != nil {
		return nil, err
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	var result *ScoreResult
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, criterion, err := ss.resolveCell(ctx, tx, in.ProposalID, in.CriterionID)
		if err != nil {
			return err
		}

		existing, err := ss.scoreRepo.GetByCell(ctx, tx, in.ProposalID, in.CriterionID)
		if err != nil {
			return fmt.Errorf("error checking existing score: %w", err)
		}
		if existing != nil {
			return scoring.NewError(scoring.KindDuplicateScore, "proposal %s already has a score for criterion %q, revise it instead", in.ProposalID, criterion.Name)
		}

		row := &types.ProposalScore{
			ProposalID:    in.ProposalID,
			CriterionID:   in.CriterionID,
			RawScore:      in.RawScore,
			WeightedScore: scoring.WeightedScore(in.RawScore, criterion.Weight),
			Notes:         in.Notes,
			ScoredBy:      rd.UserID,
			ScoredAt:      time.Now().UTC(),
			IsFinal:       proposal.IsLocked(),
		}
		if _, err := ss.scoreRepo.Create(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to create score: %w", err)
		}

		result = &ScoreResult{Score: row, LockedProposalWarning: proposal.IsLocked()}
		return nil
	}); err != nil {
		return nil, err
	}

	if result.LockedProposalWarning {
		ss.log.Warn("Score submitted on a locked proposal", "proposal_id", in.ProposalID, "criterion_id", in.CriterionID, "scored_by", rd.UserID)
	}
	return result, nil
}

func (ss *scoreService) ReviseScore(ctx context.Context, in ReviseScoreInput) (*ScoreResult, error) {
	if err := scoring.ValidateReason(in.Reason); err != nil {
		return nil, err
	}
	if in.NewRawScore != nil {
		if err := scoring.ValidateRawScore(*in.NewRawScore); err != nil {
			return nil, err
		}
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("request data not set in context")
	}

	var result *ScoreResult
	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		proposal, criterion, err := ss.resolveCell(ctx, tx, in.ProposalID, in.CriterionID)
		if err != nil {
			return err
		}

		current, err := ss.scoreRepo.GetByCell(ctx, tx, in.ProposalID, in.CriterionID)
		if err != nil {
			return fmt.Errorf("error fetching current score: %w", err)
		}
		if current == nil {
			return scoring.NewError(scoring.KindNotFound, "proposal %s has no score for criterion %q yet, submit one first", in.ProposalID, criterion.Name)
		}

		rawChanged := in.NewRawScore != nil && *in.NewRawScore != current.RawScore
		notesChanged := in.NewNotes != nil && *in.NewNotes != current.Notes
		if !rawChanged && !notesChanged {
			return scoring.NewError(scoring.KindNoChangeDetected, "revision changes neither the raw score nor the notes")
		}

		history := &types.ScoreHistory{
			ProposalScoreID:  current.ID,
			ProposalID:       current.ProposalID,
			CriterionID:      current.CriterionID,
			PreviousRawScore: current.RawScore,
			NewRawScore:      current.RawScore,
			PreviousNotes:    current.Notes,
			NewNotes:         current.Notes,
			Reason:           in.Reason,
			RevisedBy:        rd.UserID,
			RevisedAt:        time.Now().UTC(),
		}

		if rawChanged {
			current.RawScore = *in.NewRawScore
			current.WeightedScore = scoring.WeightedScore(current.RawScore, criterion.Weight)
			history.NewRawScore = current.RawScore
		}
		if notesChanged {
			current.Notes = *in.NewNotes
			history.NewNotes = current.Notes
		}
		current.ScoredBy = rd.UserID
		current.ScoredAt = history.RevisedAt
		current.IsFinal = proposal.IsLocked()

		// The in-place update and the audit row commit or roll back together.
		if err := ss.scoreRepo.Update(ctx, tx, current); err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
		if _, err := ss.historyRepo.Create(ctx, tx, history); err != nil {
			return fmt.Errorf("failed to append score history: %w", err)
		}

		result = &ScoreResult{Score: current, LockedProposalWarning: proposal.IsLocked()}
		return nil
	}); err != nil {
		return nil, err
	}

	if result.LockedProposalWarning {
		ss.log.Warn("Score revised on a locked proposal", "proposal_id", in.ProposalID, "criterion_id", in.CriterionID, "revised_by", rd.UserID)
	}
	return result, nil
}

func (ss *scoreService) GetScoreHistory(ctx context.Context, proposalID, criterionID uuid.UUID) ([]*types.ScoreHistory, error) {
	rows, err := ss.historyRepo.GetByCell(ctx, nil, proposalID, criterionID)
	if err != nil {
		return nil, fmt.Errorf("error fetching score history: %w", err)
	}
	return rows, nil
}
