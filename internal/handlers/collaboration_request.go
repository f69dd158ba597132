package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type CollaborationRequestHandler struct {
	requestService *services.CollaborationRequestService
}

func NewCollaborationRequestHandler(db *gorm.DB) *CollaborationRequestHandler {
	return &CollaborationRequestHandler{
		requestService: services.NewCollaborationRequestService(db),
	}
}

// ListMine returns invitations the caller sent or received
// GET /api/collaboration-requests/my-requests
func (h *CollaborationRequestHandler) ListMine(c *gin.Context) {
	overview, err := h.requestService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, overview)
}

// Send creates a pending invitation (owner/editor only)
// POST /api/collaboration-requests
func (h *CollaborationRequestHandler) Send(c *gin.Context) {
	var req services.SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.Send(middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"request": request})
}

// Accept joins the project as an editor (recipient only)
// POST /api/collaboration-requests/:requestId/accept
func (h *CollaborationRequestHandler) Accept(c *gin.Context) {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return
	}

	if err := h.requestService.Accept(requestID, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "collaboration request accepted"})
}

// Reject declines an invitation (recipient only)
// POST /api/collaboration-requests/:requestId/reject
func (h *CollaborationRequestHandler) Reject(c *gin.Context) {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return
	}

	if err := h.requestService.Reject(requestID, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "collaboration request rejected"})
}

// Cancel withdraws a pending invitation (sender only)
// DELETE /api/collaboration-requests/:requestId
func (h *CollaborationRequestHandler) Cancel(c *gin.Context) {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return
	}

	if err := h.requestService.Cancel(requestID, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "collaboration request cancelled"})
}
