package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/types"
)

type ProposalScoreRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ProposalScore) (*types.ProposalScore, error)
	GetByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) (*types.ProposalScore, error)
	GetByProposalIDs(ctx context.Context, tx *gorm.DB, proposalIDs []uuid.UUID) ([]*types.ProposalScore, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.ProposalScore) error
	MarkFinalByProposalID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) error
}

type proposalScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposalScoreRepo(db *gorm.DB, baseLog *logger.Logger) ProposalScoreRepo {
	repoLog := baseLog.With("repo", "ProposalScoreRepo")
	return &proposalScoreRepo{db: db, log: repoLog}
}

func (r *proposalScoreRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ProposalScore) (*types.ProposalScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *proposalScoreRepo) GetByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) (*types.ProposalScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if proposalID == uuid.Nil || criterionID == uuid.Nil {
		return nil, nil
	}

	var results []*types.ProposalScore
	if err := transaction.WithContext(ctx).
		Where("proposal_id = ? AND criterion_id = ?", proposalID, criterionID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *proposalScoreRepo) GetByProposalIDs(ctx context.Context, tx *gorm.DB, proposalIDs []uuid.UUID) ([]*types.ProposalScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProposalScore
	if len(proposalIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("proposal_id IN ?", proposalIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *proposalScoreRepo) Update(ctx context.Context, tx *gorm.DB, row *types.ProposalScore) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil || row.ID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ProposalScore{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"raw_score":      row.RawScore,
			"weighted_score": row.WeightedScore,
			"notes":          row.Notes,
			"scored_by":      row.ScoredBy,
			"scored_at":      row.ScoredAt,
			"is_final":       row.IsFinal,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *proposalScoreRepo) MarkFinalByProposalID(ctx context.Context, tx *gorm.DB, proposalID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if proposalID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ProposalScore{}).
		Where("proposal_id = ?", proposalID).
		Update("is_final", true).Error; err != nil {
		return err
	}
	return nil
}
