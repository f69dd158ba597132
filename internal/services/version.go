package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/pkg/logger"
	"gorm.io/gorm"
)

// maxSubmitRetries bounds retry attempts when two submissions to the same
// project race on the same version number. The (project_id, version_number)
// unique index makes the loser fail its insert; we recompute and try again.
const maxSubmitRetries = 3

// Submit result types.
const (
	SubmitTypeSaved    = "saved"
	SubmitTypeProposal = "proposal"
)

// VersionService is the version store plus the HEAD-pointer decision: every
// submission durably appends a version first; only whether HEAD moves
// depends on the caller's role.
type VersionService struct {
	db       *gorm.DB
	access   *AccessService
	cache    *ProjectCache
	activity *ActivityService
}

func NewVersionService(db *gorm.DB, cache *ProjectCache) *VersionService {
	return &VersionService{
		db:       db,
		access:   NewAccessService(db),
		cache:    cache,
		activity: NewActivityService(db),
	}
}

type SubmitVersionRequest struct {
	MusicData       json.RawMessage `json:"musicData" binding:"required"`
	Metadata        json.RawMessage `json:"metadata"`
	Message         string          `json:"message"`
	ParentVersionID *uint           `json:"parentVersionId"`
}

// SubmitResult reports what a submission produced. Type is "saved" when the
// new version became HEAD directly, "proposal" when it was queued for review.
type SubmitResult struct {
	Version  *models.Version  `json:"version"`
	Proposal *models.Proposal `json:"proposal,omitempty"`
	Type     string           `json:"type"`
}

// Submit appends a new version and either advances HEAD (owner/editor) or
// opens a pending proposal (any other collaborator). The version insert and
// the HEAD move or proposal insert commit atomically.
func (s *VersionService) Submit(ctx context.Context, projectID, authorID uint, req *SubmitVersionRequest) (*SubmitResult, error) {
	role, err := s.access.Require(projectID, authorID, ActionWriteVersion)
	if err != nil {
		return nil, err
	}

	if len(req.MusicData) == 0 {
		return nil, fmt.Errorf("%w: music data is required", ErrValidation)
	}
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}

	var result *SubmitResult
	for attempt := 0; attempt < maxSubmitRetries; attempt++ {
		result, err = s.trySubmit(projectID, authorID, role, req, metadata)
		if err == nil {
			break
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		logger.Warnf("[Version] number collision on project %d, retrying (%d/%d)", projectID, attempt+1, maxSubmitRetries)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: concurrent submission, please retry", ErrConflict)
	}

	if result.Type == SubmitTypeSaved {
		s.cache.Invalidate(ctx, projectID)
		s.activity.Record(projectID, &authorID, models.ActivityVersionSaved,
			fmt.Sprintf("saved version %d", result.Version.VersionNumber),
			map[string]interface{}{"version_id": result.Version.ID})
	} else {
		s.activity.Record(projectID, &authorID, models.ActivityProposalSubmitted,
			fmt.Sprintf("proposed version %d", result.Version.VersionNumber),
			map[string]interface{}{"version_id": result.Version.ID, "proposal_id": result.Proposal.ID})
	}
	return result, nil
}

// trySubmit runs one transactional submission attempt.
func (s *VersionService) trySubmit(projectID, authorID uint, role Role, req *SubmitVersionRequest, metadata json.RawMessage) (*SubmitResult, error) {
	var result SubmitResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
			}
			return err
		}

		var next int
		if err := tx.Model(&models.Version{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(version_number), 0) + 1").
			Scan(&next).Error; err != nil {
			return err
		}

		message := req.Message
		if message == "" {
			message = fmt.Sprintf("Version %d", next)
		}

		version := models.Version{
			ProjectID:       projectID,
			ParentVersionID: req.ParentVersionID,
			VersionNumber:   next,
			MusicData:       req.MusicData,
			Metadata:        metadata,
			CreatedBy:       authorID,
			Message:         message,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		if role.CanEdit() {
			err := tx.Model(&models.Project{}).
				Where("id = ?", projectID).
				Updates(map[string]interface{}{
					"current_version_id": version.ID,
					"updated_at":         time.Now(),
				}).Error
			if err != nil {
				return err
			}
			result = SubmitResult{Version: &version, Type: SubmitTypeSaved}
			return nil
		}

		proposal := models.Proposal{
			ProjectID:   projectID,
			VersionID:   version.ID,
			ProposedBy:  authorID,
			Title:       fmt.Sprintf("Proposed changes (v%d)", next),
			Description: "Changes submitted for review.",
			Status:      models.ProposalPending,
		}
		if req.Message != "" {
			proposal.Title = req.Message
		}
		if err := tx.Create(&proposal).Error; err != nil {
			return err
		}
		result = SubmitResult{Version: &version, Proposal: &proposal, Type: SubmitTypeProposal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns all versions of a project, newest first.
func (s *VersionService) List(projectID, callerID uint) ([]models.Version, error) {
	if _, err := s.access.Require(projectID, callerID, ActionRead); err != nil {
		return nil, err
	}

	var versions []models.Version
	err := s.db.Preload("Creator").
		Where("project_id = ?", projectID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// Get returns a single version, scoped to the project.
func (s *VersionService) Get(projectID, versionID, callerID uint) (*models.Version, error) {
	if _, err := s.access.Require(projectID, callerID, ActionRead); err != nil {
		return nil, err
	}

	var version models.Version
	err := s.db.Preload("Creator").
		Where("id = ? AND project_id = ?", versionID, projectID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: version %d", ErrNotFound, versionID)
		}
		return nil, err
	}
	return &version, nil
}

// Revert moves HEAD to an existing version. No new version is created and
// no history is rewritten; the pointer simply moves.
func (s *VersionService) Revert(ctx context.Context, projectID, versionID, callerID uint) error {
	role, err := s.access.RoleOn(projectID, callerID)
	if err != nil {
		return err
	}
	if role == RoleNone {
		return fmt.Errorf("%w: not a collaborator", ErrAccessDenied)
	}
	if !role.Can(ActionRevert) {
		return fmt.Errorf("%w: viewers cannot revert", ErrAccessDenied)
	}

	var version models.Version
	err = s.db.Select("id").
		Where("id = ? AND project_id = ?", versionID, projectID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: version %d", ErrNotFound, versionID)
		}
		return err
	}

	err = s.db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"current_version_id": versionID,
			"updated_at":         time.Now(),
		}).Error
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, projectID)
	s.activity.Record(projectID, &callerID, models.ActivityReverted,
		fmt.Sprintf("reverted to version %d", versionID),
		map[string]interface{}{"version_id": versionID})
	return nil
}

// isDuplicateKey reports whether err is a unique-constraint violation.
// gorm translates most driver errors; the string checks cover drivers that
// slip through.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
