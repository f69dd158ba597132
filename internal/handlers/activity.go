package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	activityService *services.ActivityService
	accessService   *services.AccessService
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{
		activityService: services.NewActivityService(db),
		accessService:   services.NewAccessService(db),
	}
}

// List returns a project's activity feed
// GET /api/projects/:id/activity
func (h *ActivityHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, err := h.accessService.Require(projectID, middleware.GetUserID(c), services.ActionRead); err != nil {
		handleServiceError(c, err)
		return
	}

	var req services.ActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.activityService.ListByProject(projectID, &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}
