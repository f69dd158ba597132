package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmorell/chorus/internal/models"
	"gorm.io/gorm"
)

// ProposalService owns the proposal state machine:
// pending -> accepted | pending -> rejected, both terminal. Transitions use a
// conditional update so that concurrent reviews cannot both win.
type ProposalService struct {
	db       *gorm.DB
	access   *AccessService
	cache    *ProjectCache
	activity *ActivityService
}

func NewProposalService(db *gorm.DB, cache *ProjectCache) *ProposalService {
	return &ProposalService{
		db:       db,
		access:   NewAccessService(db),
		cache:    cache,
		activity: NewActivityService(db),
	}
}

// List returns all proposals for a project, newest first.
func (s *ProposalService) List(projectID, callerID uint) ([]models.Proposal, error) {
	if _, err := s.access.Require(projectID, callerID, ActionRead); err != nil {
		return nil, err
	}

	var proposals []models.Proposal
	err := s.db.Preload("Proposer").Preload("Reviewer").Preload("Version").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

type CreateProposalRequest struct {
	ProposedVersionID uint   `json:"proposedVersionId"`
	Title             string `json:"title"`
	Description       string `json:"description"`
}

// Create opens a proposal for an existing version. Normally proposals are
// created implicitly by Submit; this covers re-proposing a stored version.
func (s *ProposalService) Create(projectID, proposerID uint, req *CreateProposalRequest) (*models.Proposal, error) {
	if _, err := s.access.Require(projectID, proposerID, ActionWriteVersion); err != nil {
		return nil, err
	}

	if req.ProposedVersionID == 0 || req.Title == "" {
		return nil, fmt.Errorf("%w: proposed version id and title are required", ErrValidation)
	}

	var version models.Version
	err := s.db.Select("id").
		Where("id = ? AND project_id = ?", req.ProposedVersionID, projectID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: version %d", ErrNotFound, req.ProposedVersionID)
		}
		return nil, err
	}

	proposal := models.Proposal{
		ProjectID:   projectID,
		VersionID:   req.ProposedVersionID,
		ProposedBy:  proposerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProposalPending,
	}
	if err := s.db.Create(&proposal).Error; err != nil {
		return nil, err
	}

	s.activity.Record(projectID, &proposerID, models.ActivityProposalSubmitted,
		fmt.Sprintf("opened proposal %q", proposal.Title),
		map[string]interface{}{"proposal_id": proposal.ID, "version_id": proposal.VersionID})
	return &proposal, nil
}

// Accept closes a pending proposal and moves HEAD to its version. This is
// the only path by which a proposal moves HEAD. Fails with ErrInvalidState
// when the proposal was already reviewed.
func (s *ProposalService) Accept(ctx context.Context, proposalID, reviewerID uint) error {
	proposal, err := s.load(proposalID)
	if err != nil {
		return err
	}
	if _, err := s.access.Require(proposal.ProjectID, reviewerID, ActionReviewProposal); err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Proposal{}).
			Where("id = ? AND status = ?", proposalID, models.ProposalPending).
			Updates(map[string]interface{}{
				"status":      models.ProposalAccepted,
				"reviewed_by": reviewerID,
				"reviewed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: proposal is not pending", ErrInvalidState)
		}

		return tx.Model(&models.Project{}).
			Where("id = ?", proposal.ProjectID).
			Updates(map[string]interface{}{
				"current_version_id": proposal.VersionID,
				"updated_at":         now,
			}).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, proposal.ProjectID)
	s.activity.Record(proposal.ProjectID, &reviewerID, models.ActivityProposalAccepted,
		fmt.Sprintf("accepted proposal %q", proposal.Title),
		map[string]interface{}{"proposal_id": proposal.ID, "version_id": proposal.VersionID})
	return nil
}

// Reject closes a pending proposal. HEAD and the underlying version are
// untouched; the version stays in the store, orphaned from HEAD lineage.
func (s *ProposalService) Reject(proposalID, reviewerID uint) error {
	proposal, err := s.load(proposalID)
	if err != nil {
		return err
	}
	if _, err := s.access.Require(proposal.ProjectID, reviewerID, ActionReviewProposal); err != nil {
		return err
	}

	res := s.db.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", proposalID, models.ProposalPending).
		Updates(map[string]interface{}{
			"status":      models.ProposalRejected,
			"reviewed_by": reviewerID,
			"reviewed_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: proposal is not pending", ErrInvalidState)
	}

	s.activity.Record(proposal.ProjectID, &reviewerID, models.ActivityProposalRejected,
		fmt.Sprintf("rejected proposal %q", proposal.Title),
		map[string]interface{}{"proposal_id": proposal.ID})
	return nil
}

func (s *ProposalService) load(proposalID uint) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := s.db.First(&proposal, proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: proposal %d", ErrNotFound, proposalID)
		}
		return nil, err
	}
	return &proposal, nil
}
