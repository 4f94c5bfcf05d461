package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bidboard/bidboard-backend/internal/services"
)

type RankingHandler struct {
	svc services.RankingService
}

func NewRankingHandler(svc services.RankingService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

// GET /api/projects/:id/rankings
func (h *RankingHandler) GetRankings(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	rankings, err := h.svc.RankProposals(c.Request.Context(), projectID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rankings": rankings})
}

// GET /api/projects/:id/rankings/export
// Streams the ranking table as CSV for report tooling.
func (h *RankingHandler) ExportRankings(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	rankings, err := h.svc.RankProposals(c.Request.Context(), projectID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rankings-%s.csv", projectID))
	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"rank", "proposal_id", "proposal_title", "total_weighted_score", "criteria_scored", "criteria_total"})
	for _, r := range rankings {
		_ = w.Write([]string{
			strconv.Itoa(r.Rank),
			r.ProposalID.String(),
			r.ProposalTitle,
			strconv.FormatFloat(r.TotalWeightedScore, 'f', 2, 64),
			strconv.Itoa(r.CriteriaScoredCount),
			strconv.Itoa(r.CriteriaTotalCount),
		})
	}
	w.Flush()
}
