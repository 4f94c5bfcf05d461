package types

import "github.com/google/uuid"

// ProposalRanking is derived per request, never persisted. Proposals with
// equal totals share a rank and the next distinct total skips ahead
// (competition ranking).
type ProposalRanking struct {
	ProposalID          uuid.UUID `json:"proposal_id"`
	ProposalTitle       string    `json:"proposal_title"`
	TotalWeightedScore  float64   `json:"total_weighted_score"`
	Rank                int       `json:"rank"`
	CriteriaScoredCount int       `json:"criteria_scored_count"`
	CriteriaTotalCount  int       `json:"criteria_total_count"`
}
