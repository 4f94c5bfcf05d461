package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bidboard/bidboard-backend/internal/services"
)

type ScoreHandler struct {
	svc services.ScoreService
}

func NewScoreHandler(svc services.ScoreService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

func parseCell(c *gin.Context) (proposalID, criterionID uuid.UUID, ok bool) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return uuid.Nil, uuid.Nil, false
	}
	criterionID, err = uuid.Parse(c.Param("criterionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid criterion id"})
		return uuid.Nil, uuid.Nil, false
	}
	return proposalID, criterionID, true
}

// POST /api/proposals/:id/scores/:criterionId
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	proposalID, criterionID, ok := parseCell(c)
	if !ok {
		return
	}

	var req struct {
		RawScore float64 `json:"raw_score"`
		Notes    string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.SubmitScore(c.Request.Context(), services.SubmitScoreInput{
		ProposalID:  proposalID,
		CriterionID: criterionID,
		RawScore:    req.RawScore,
		Notes:       req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, result)
}

// PUT /api/proposals/:id/scores/:criterionId
func (h *ScoreHandler) ReviseScore(c *gin.Context) {
	proposalID, criterionID, ok := parseCell(c)
	if !ok {
		return
	}

	var req struct {
		NewRawScore *float64 `json:"new_raw_score"`
		NewNotes    *string  `json:"new_notes"`
		Reason      string   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.ReviseScore(c.Request.Context(), services.ReviseScoreInput{
		ProposalID:  proposalID,
		CriterionID: criterionID,
		NewRawScore: req.NewRawScore,
		NewNotes:    req.NewNotes,
		Reason:      req.Reason,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /api/proposals/:id/scores/:criterionId/history
func (h *ScoreHandler) GetScoreHistory(c *gin.Context) {
	proposalID, criterionID, ok := parseCell(c)
	if !ok {
		return
	}

	history, err := h.svc.GetScoreHistory(c.Request.Context(), proposalID, criterionID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"history": history})
}
