package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/types"
)

// ScoreHistoryRepo is append-only: there is intentionally no update or
// delete operation on the audit trail.
type ScoreHistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ScoreHistory) (*types.ScoreHistory, error)
	GetByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) ([]*types.ScoreHistory, error)
	CountByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) (int64, error)
}

type scoreHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoreHistoryRepo(db *gorm.DB, baseLog *logger.Logger) ScoreHistoryRepo {
	repoLog := baseLog.With("repo", "ScoreHistoryRepo")
	return &scoreHistoryRepo{db: db, log: repoLog}
}

func (r *scoreHistoryRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ScoreHistory) (*types.ScoreHistory, error) {
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

func (r *scoreHistoryRepo) GetByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) ([]*types.ScoreHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScoreHistory
	if proposalID == uuid.Nil || criterionID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("proposal_id = ? AND criterion_id = ?", proposalID, criterionID).
		Order("revised_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scoreHistoryRepo) CountByCell(ctx context.Context, tx *gorm.DB, proposalID, criterionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ScoreHistory{}).
		Where("proposal_id = ? AND criterion_id = ?", proposalID, criterionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
