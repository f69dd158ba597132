package services

import (
	"errors"
	"fmt"

	"github.com/tmorell/chorus/internal/models"
	"gorm.io/gorm"
)

// Role is a caller's relation to a project.
type Role string

const (
	RoleNone   Role = "none"
	RoleViewer Role = models.RoleViewer
	RoleEditor Role = models.RoleEditor
	RoleOwner  Role = models.RoleOwner
)

// Action is an operation subject to the permission matrix.
type Action int

const (
	ActionRead Action = iota
	ActionWriteVersion
	ActionRevert
	ActionReviewProposal
	ActionInviteCollaborator
	ActionManageCollaborators
	ActionManageProject
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionWriteVersion:
		return "write-version"
	case ActionRevert:
		return "revert"
	case ActionReviewProposal:
		return "review-proposal"
	case ActionInviteCollaborator:
		return "invite-collaborator"
	case ActionManageCollaborators:
		return "manage-collaborators"
	case ActionManageProject:
		return "manage-project"
	}
	return "unknown"
}

// Can is the total permission decision function. Any collaborator may read
// and submit versions; whether a submission moves HEAD or becomes a proposal
// is decided separately by the submit path. Revert and proposal review need
// editor or owner. Collaborator and project management is owner-only, except
// invitations which editors may also send.
func (r Role) Can(a Action) bool {
	switch a {
	case ActionRead, ActionWriteVersion:
		return r != RoleNone
	case ActionRevert, ActionReviewProposal, ActionInviteCollaborator:
		return r == RoleOwner || r == RoleEditor
	case ActionManageCollaborators, ActionManageProject:
		return r == RoleOwner
	}
	return false
}

// CanEdit reports whether the role saves directly to HEAD.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// AccessService resolves caller roles and enforces the permission matrix.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// RoleOn resolves the caller's role on a project. Project ownership wins over
// any collaborator row. Returns ErrNotFound if the project does not exist.
func (s *AccessService) RoleOn(projectID, userID uint) (Role, error) {
	var project models.Project
	if err := s.db.Select("id", "owner_id").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
		}
		return RoleNone, err
	}

	if project.OwnerID == userID {
		return RoleOwner, nil
	}

	var collab models.Collaborator
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&collab).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}

	switch collab.Role {
	case models.RoleOwner:
		return RoleOwner, nil
	case models.RoleEditor:
		return RoleEditor, nil
	default:
		return RoleViewer, nil
	}
}

// Require resolves the caller's role and checks it against the action.
// Returns the role so callers can branch on it without a second lookup.
func (s *AccessService) Require(projectID, userID uint, action Action) (Role, error) {
	role, err := s.RoleOn(projectID, userID)
	if err != nil {
		return role, err
	}
	if !role.Can(action) {
		return role, fmt.Errorf("%w: %s requires more than %s access", ErrAccessDenied, action, role)
	}
	return role, nil
}
