package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoringTemplate is the named set of weighted criteria a client defines for
// one project. Criteria weights must sum to 100 at save time.
type ScoringTemplate struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	Project   *Project            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name      string              `gorm:"not null;column:name" json:"name"`
	CreatedBy uuid.UUID           `gorm:"type:uuid;not null;column:created_by" json:"created_by"`
	Criteria  []*ScoringCriterion `gorm:"foreignKey:TemplateID;references:ID" json:"criteria,omitempty"`
	CreatedAt time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time           `gorm:"not null" json:"updated_at"`
}

func (ScoringTemplate) TableName() string { return "scoring_template" }

func (t *ScoringTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type ScoringCriterion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemplateID  uuid.UUID `gorm:"type:uuid;not null;index" json:"template_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description,omitempty"`
	Weight      float64   `gorm:"type:numeric(5,2);not null;column:weight" json:"weight"`
	OrderIndex  int       `gorm:"not null;default:0;column:order_index" json:"order_index"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (ScoringCriterion) TableName() string { return "scoring_criterion" }

func (c *ScoringCriterion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
