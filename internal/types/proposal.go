package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProposalStatusDraft     = "draft"
	ProposalStatusSubmitted = "submitted"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
)

type Proposal struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	SubmittedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Summary     string         `gorm:"type:text;column:summary" json:"summary"`
	BidAmount   float64        `gorm:"type:numeric(12,2);not null;default:0;column:bid_amount" json:"bid_amount"`
	Status      string         `gorm:"not null;default:'draft';column:status" json:"status"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Proposal) TableName() string { return "proposal" }

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsLocked reports whether the proposal has reached a decided status.
// Scores on a locked proposal can still be edited, but writes surface a
// warning to the caller.
func (p *Proposal) IsLocked() bool {
	return p.Status == ProposalStatusAccepted || p.Status == ProposalStatusRejected
}
