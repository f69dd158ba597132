package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type CollaboratorHandler struct {
	collaboratorService *services.CollaboratorService
}

func NewCollaboratorHandler(db *gorm.DB) *CollaboratorHandler {
	return &CollaboratorHandler{
		collaboratorService: services.NewCollaboratorService(db),
	}
}

// List returns a project's collaborators
// GET /api/projects/:id/collaborators
func (h *CollaboratorHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	collaborators, err := h.collaboratorService.List(projectID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"collaborators": collaborators})
}

// Add grants a user membership by email (owner only)
// POST /api/projects/:id/collaborators
func (h *CollaboratorHandler) Add(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	collaborator, err := h.collaboratorService.Add(projectID, middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"collaborator": collaborator})
}

// Remove revokes a user's membership (owner only)
// DELETE /api/projects/:id/collaborators/:userId
func (h *CollaboratorHandler) Remove(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if err := h.collaboratorService.Remove(projectID, middleware.GetUserID(c), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "collaborator removed successfully"})
}
