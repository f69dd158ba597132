package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

// List returns all users except the caller
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListOthers(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"users": users})
}

// Search matches users by username or email
// GET /api/users/search?q=...
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(middleware.GetUserID(c), c.Query("q"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"users": users})
}

// Available returns users not yet on the given project
// GET /api/users/available/:projectId
func (h *UserHandler) Available(c *gin.Context) {
	projectID, ok := paramID(c, "projectId")
	if !ok {
		return
	}

	users, err := h.userService.AvailableForProject(middleware.GetUserID(c), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"users": users})
}
