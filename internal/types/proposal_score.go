package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProposalScore is the single current score for one (proposal, criterion)
// cell. Revisions update this row in place and append a ScoreHistory entry.
type ProposalScore struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_proposal_criterion,unique" json:"proposal_id"`
	Proposal      *Proposal         `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProposalID;references:ID" json:"proposal,omitempty"`
	CriterionID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_proposal_criterion,unique" json:"criterion_id"`
	Criterion     *ScoringCriterion `gorm:"foreignKey:CriterionID;references:ID" json:"criterion,omitempty"`
	RawScore      float64           `gorm:"type:numeric(4,2);not null;column:raw_score" json:"raw_score"`
	WeightedScore float64           `gorm:"type:numeric(6,2);not null;column:weighted_score" json:"weighted_score"`
	Notes         string            `gorm:"type:text;column:notes" json:"notes,omitempty"`
	ScoredBy      uuid.UUID         `gorm:"type:uuid;not null;column:scored_by" json:"scored_by"`
	ScoredAt      time.Time         `gorm:"not null;column:scored_at" json:"scored_at"`
	IsFinal       bool              `gorm:"not null;default:false;column:is_final" json:"is_final"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

func (ProposalScore) TableName() string { return "proposal_score" }

func (s *ProposalScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
