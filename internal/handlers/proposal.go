package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type ProposalHandler struct {
	proposalService *services.ProposalService
}

func NewProposalHandler(db *gorm.DB, cache *services.ProjectCache) *ProposalHandler {
	return &ProposalHandler{
		proposalService: services.NewProposalService(db, cache),
	}
}

// List returns all proposals for a project
// GET /api/projects/:id/proposals
func (h *ProposalHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	proposals, err := h.proposalService.List(projectID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"proposals": proposals})
}

// Create opens a proposal for an existing version
// POST /api/projects/:id/proposals
func (h *ProposalHandler) Create(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	proposal, err := h.proposalService.Create(projectID, middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"proposal": proposal})
}

// Accept closes a pending proposal and moves HEAD to its version
// POST /api/proposals/:proposalId/accept
func (h *ProposalHandler) Accept(c *gin.Context) {
	proposalID, ok := paramID(c, "proposalId")
	if !ok {
		return
	}

	err := h.proposalService.Accept(c.Request.Context(), proposalID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "proposal accepted"})
}

// Reject closes a pending proposal without moving HEAD
// POST /api/proposals/:proposalId/reject
func (h *ProposalHandler) Reject(c *gin.Context) {
	proposalID, ok := paramID(c, "proposalId")
	if !ok {
		return
	}

	err := h.proposalService.Reject(proposalID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "proposal rejected"})
}
