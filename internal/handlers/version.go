package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type VersionHandler struct {
	versionService *services.VersionService
}

func NewVersionHandler(db *gorm.DB, cache *services.ProjectCache) *VersionHandler {
	return &VersionHandler{
		versionService: services.NewVersionService(db, cache),
	}
}

// List returns all versions of a project, newest first
// GET /api/projects/:id/versions
func (h *VersionHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	versions, err := h.versionService.List(projectID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"versions": versions})
}

// GetByID returns a single version
// GET /api/projects/:id/versions/:versionId
func (h *VersionHandler) GetByID(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := paramID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.versionService.Get(projectID, versionID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"version": version})
}

// Submit saves a new snapshot. Owners and editors save directly to HEAD;
// other collaborators get a pending proposal.
// POST /api/projects/:id/versions
func (h *VersionHandler) Submit(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.SubmitVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.versionService.Submit(c.Request.Context(), projectID, middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, result)
}

// Revert moves HEAD to an existing version (owner/editor only)
// POST /api/projects/:id/revert/:versionId
func (h *VersionHandler) Revert(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	versionID, ok := paramID(c, "versionId")
	if !ok {
		return
	}

	err := h.versionService.Revert(c.Request.Context(), projectID, versionID, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "reverted successfully", "versionId": versionID})
}
