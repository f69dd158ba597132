package services

import (
	"errors"
	"fmt"

	"github.com/tmorell/chorus/internal/models"
	"gorm.io/gorm"
)

type CollaboratorService struct {
	db       *gorm.DB
	access   *AccessService
	activity *ActivityService
}

func NewCollaboratorService(db *gorm.DB) *CollaboratorService {
	return &CollaboratorService{
		db:       db,
		access:   NewAccessService(db),
		activity: NewActivityService(db),
	}
}

// List returns a project's collaborators in join order.
func (s *CollaboratorService) List(projectID, callerID uint) ([]models.Collaborator, error) {
	if _, err := s.access.Require(projectID, callerID, ActionRead); err != nil {
		return nil, err
	}

	var collaborators []models.Collaborator
	err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&collaborators).Error
	if err != nil {
		return nil, err
	}
	return collaborators, nil
}

type AddCollaboratorRequest struct {
	UserEmail string `json:"userEmail" binding:"required,email"`
	Role      string `json:"role" binding:"omitempty,oneof=editor viewer"`
}

// Add grants a user membership on a project by email. Owner only. The owner
// role is never assignable this way.
func (s *CollaboratorService) Add(projectID, callerID uint, req *AddCollaboratorRequest) (*models.Collaborator, error) {
	if _, err := s.access.Require(projectID, callerID, ActionManageCollaborators); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleEditor
	}

	var user models.User
	if err := s.db.Where("email = ?", req.UserEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
		}
		return nil, err
	}

	var existing int64
	s.db.Model(&models.Collaborator{}).
		Where("project_id = ? AND user_id = ?", projectID, user.ID).
		Count(&existing)
	if existing > 0 {
		return nil, fmt.Errorf("%w: user is already a collaborator", ErrConflict)
	}

	collaborator := models.Collaborator{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      role,
	}
	if err := s.db.Create(&collaborator).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: user is already a collaborator", ErrConflict)
		}
		return nil, err
	}

	s.activity.Record(projectID, &callerID, models.ActivityCollaboratorAdded,
		fmt.Sprintf("added %s as %s", user.Username, role),
		map[string]interface{}{"user_id": user.ID, "role": role})
	return &collaborator, nil
}

// Remove revokes a user's membership. Owner only; the owner row itself
// cannot be removed.
func (s *CollaboratorService) Remove(projectID, callerID, userID uint) error {
	if _, err := s.access.Require(projectID, callerID, ActionManageCollaborators); err != nil {
		return err
	}

	if userID == callerID {
		return fmt.Errorf("%w: cannot remove the project owner", ErrValidation)
	}

	result := s.db.Where("project_id = ? AND user_id = ? AND role != ?",
		projectID, userID, models.RoleOwner).
		Delete(&models.Collaborator{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: collaborator", ErrNotFound)
	}

	s.activity.Record(projectID, &callerID, models.ActivityCollaboratorRemove,
		"removed a collaborator",
		map[string]interface{}{"user_id": userID})
	return nil
}
