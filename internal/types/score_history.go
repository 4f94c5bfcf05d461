package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoreHistory is one append-only audit entry per effective revision of a
// proposal score. Rows are never updated or deleted.
type ScoreHistory struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProposalScoreID  uuid.UUID `gorm:"type:uuid;not null;index" json:"proposal_score_id"`
	ProposalID       uuid.UUID `gorm:"type:uuid;not null;index" json:"proposal_id"`
	CriterionID      uuid.UUID `gorm:"type:uuid;not null;index" json:"criterion_id"`
	PreviousRawScore float64   `gorm:"type:numeric(4,2);not null;column:previous_raw_score" json:"previous_raw_score"`
	NewRawScore      float64   `gorm:"type:numeric(4,2);not null;column:new_raw_score" json:"new_raw_score"`
	PreviousNotes    string    `gorm:"type:text;column:previous_notes" json:"previous_notes,omitempty"`
	NewNotes         string    `gorm:"type:text;column:new_notes" json:"new_notes,omitempty"`
	Reason           string    `gorm:"type:text;not null;column:reason" json:"reason"`
	RevisedBy        uuid.UUID `gorm:"type:uuid;not null;column:revised_by" json:"revised_by"`
	RevisedAt        time.Time `gorm:"not null;column:revised_at" json:"revised_at"`
}

func (ScoreHistory) TableName() string { return "score_history" }

func (h *ScoreHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
