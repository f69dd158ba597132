package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmorell/chorus/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db       *gorm.DB
	access   *AccessService
	cache    *ProjectCache
	activity *ActivityService
}

func NewProjectService(db *gorm.DB, cache *ProjectCache) *ProjectService {
	return &ProjectService{
		db:       db,
		access:   NewAccessService(db),
		cache:    cache,
		activity: NewActivityService(db),
	}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ProjectDetail is the single-project view: the project, its HEAD version,
// and the caller's relation to it.
type ProjectDetail struct {
	Project        *models.Project `json:"project"`
	CurrentVersion *models.Version `json:"current_version"`
	Role           Role            `json:"role"`
	IsOwner        bool            `json:"is_owner"`
	CanEdit        bool            `json:"can_edit"`
}

// PublicProject is a discovery listing row with aggregate counts.
type PublicProject struct {
	models.Project
	OwnerUsername     string `json:"owner_username"`
	VersionCount      int64  `json:"version_count"`
	CollaboratorCount int64  `json:"collaborator_count"`
}

// ListMine returns projects the user owns or collaborates on, most recently
// updated first.
func (s *ProjectService) ListMine(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID,
			s.db.Model(&models.Collaborator{}).Select("project_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// ListPublic returns all projects for discovery, with version and
// collaborator counts.
func (s *ProjectService) ListPublic() ([]PublicProject, error) {
	var rows []PublicProject
	err := s.db.Model(&models.Project{}).
		Select(`projects.*, users.username AS owner_username,
			(SELECT COUNT(*) FROM versions WHERE versions.project_id = projects.id) AS version_count,
			(SELECT COUNT(*) FROM collaborators WHERE collaborators.project_id = projects.id) AS collaborator_count`).
		Joins("JOIN users ON users.id = projects.owner_id").
		Order("projects.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns a project with its current version, read access required.
// The {project, currentVersion} tuple is served read-through from the cache;
// the caller's role is always resolved fresh.
func (s *ProjectService) Get(ctx context.Context, projectID, userID uint) (*ProjectDetail, error) {
	role, err := s.access.Require(projectID, userID, ActionRead)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{
		Role:    role,
		IsOwner: role == RoleOwner,
		CanEdit: role.CanEdit(),
	}

	if cached := s.cache.Get(ctx, projectID); cached != nil {
		detail.Project = &cached.Project
		detail.CurrentVersion = cached.CurrentVersion
		return detail, nil
	}

	var project models.Project
	if err := s.db.Preload("Owner").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
		}
		return nil, err
	}

	var current *models.Version
	if project.CurrentVersionID != nil {
		var version models.Version
		if err := s.db.First(&version, *project.CurrentVersionID).Error; err == nil {
			current = &version
		}
	}

	s.cache.Set(ctx, projectID, &CachedProject{Project: project, CurrentVersion: current})

	detail.Project = &project
	detail.CurrentVersion = current
	return detail, nil
}

// Create makes a new project and inserts its owner collaborator row in the
// same transaction, so the one-owner invariant holds from the start.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*models.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}

	project := models.Project{
		PublicID:    uuid.NewString(),
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		owner := models.Collaborator{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.RoleOwner,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update changes project metadata. Owner only.
func (s *ProjectService) Update(ctx context.Context, projectID, userID uint, req *UpdateProjectRequest) (*models.Project, error) {
	if _, err := s.access.Require(projectID, userID, ActionManageProject); err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&project).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx, projectID)
		s.activity.Record(projectID, &userID, models.ActivityProjectUpdated, "updated project details", nil)
	}
	return &project, nil
}

// Delete removes a project. Owner only.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID uint) error {
	if _, err := s.access.Require(projectID, userID, ActionManageProject); err != nil {
		return err
	}

	result := s.db.Delete(&models.Project{}, projectID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}

	s.cache.Invalidate(ctx, projectID)
	return nil
}
