package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidboard/bidboard-backend/internal/logger"
	"github.com/bidboard/bidboard-backend/internal/types"
)

type ScoringTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ScoringTemplate) (*types.ScoringTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScoringTemplate, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.ScoringTemplate, error)
	GetCriterionByID(ctx context.Context, tx *gorm.DB, criterionID uuid.UUID) (*types.ScoringCriterion, error)
	ReplaceCriteria(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, criteria []*types.ScoringCriterion) error
	ScoreCountForTemplate(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (int64, error)
}

type scoringTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScoringTemplateRepo(db *gorm.DB, baseLog *logger.Logger) ScoringTemplateRepo {
	repoLog := baseLog.With("repo", "ScoringTemplateRepo")
	return &scoringTemplateRepo{db: db, log: repoLog}
}

func (r *scoringTemplateRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ScoringTemplate) (*types.ScoringTemplate, error) {
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

func (r *scoringTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScoringTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScoringTemplate
	if id == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *scoringTemplateRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.ScoringTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScoringTemplate
	if projectID == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Criteria", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("project_id = ?", projectID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *scoringTemplateRepo) GetCriterionByID(ctx context.Context, tx *gorm.DB, criterionID uuid.UUID) (*types.ScoringCriterion, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if criterionID == uuid.Nil {
		return nil, nil
	}

	var results []*types.ScoringCriterion
	if err := transaction.WithContext(ctx).
		Where("id = ?", criterionID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ReplaceCriteria swaps the full criteria set of a template. Callers hold
// the transaction; validation of the incoming set happens in the service.
func (r *scoringTemplateRepo) ReplaceCriteria(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, criteria []*types.ScoringCriterion) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("template_id = ?", templateID).
		Delete(&types.ScoringCriterion{}).Error; err != nil {
		return err
	}
	if len(criteria) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).Create(&criteria).Error; err != nil {
		return err
	}
	return nil
}

// ScoreCountForTemplate counts current proposal scores referencing any
// criterion of the template. A non-zero count locks the template.
func (r *scoringTemplateRepo) ScoreCountForTemplate(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProposalScore{}).
		Joins("JOIN scoring_criterion ON scoring_criterion.id = proposal_score.criterion_id").
		Where("scoring_criterion.template_id = ?", templateID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
