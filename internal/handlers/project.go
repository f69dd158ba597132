package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB, cache *services.ProjectCache) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db, cache),
	}
}

// List returns the caller's projects (owned or collaborating)
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, projects)
}

// ListPublic returns all projects for discovery
// GET /api/projects/public
func (h *ProjectHandler) ListPublic(c *gin.Context) {
	projects, err := h.projectService.ListPublic()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, projects)
}

// GetByID returns a project with its current version and the caller's role
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	detail, err := h.projectService.Get(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, detail)
}

// Create creates a new project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, project)
}

// Update updates project metadata (owner only)
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, middleware.GetUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, project)
}

// Delete removes a project (owner only)
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted successfully"})
}
