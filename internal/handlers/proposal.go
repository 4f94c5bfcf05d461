package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bidboard/bidboard-backend/internal/services"
)

type ProposalHandler struct {
	svc services.ProposalService
}

func NewProposalHandler(svc services.ProposalService) *ProposalHandler {
	return &ProposalHandler{svc: svc}
}

// POST /api/projects/:id/proposals
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	var req struct {
		Title     string  `json:"title"`
		Summary   string  `json:"summary"`
		BidAmount float64 `json:"bid_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	proposal, err := h.svc.CreateProposal(c.Request.Context(), projectID, req.Title, req.Summary, req.BidAmount)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

// GET /api/projects/:id/proposals
func (h *ProposalHandler) ListProposalsForProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	proposals, err := h.svc.ListProposalsForProject(c.Request.Context(), projectID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposals": proposals})
}

// GET /api/proposals/:id
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	proposal, err := h.svc.GetProposal(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}

// POST /api/proposals/:id/decision
func (h *ProposalHandler) DecideProposal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proposal id"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	proposal, err := h.svc.DecideProposal(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposal": proposal})
}
