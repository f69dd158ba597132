package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/pkg/logger"
	"gorm.io/gorm"
)

const (
	// RequestExpiryDays is how long a pending invitation stays open.
	RequestExpiryDays    = 30
	requestSweepInterval = 24 * time.Hour
)

// CollaborationRequestService handles the invitation workflow: owners and
// editors invite users, recipients accept or reject, senders may cancel
// while pending. Like proposals, responses use conditional updates so a
// request is processed at most once.
type CollaborationRequestService struct {
	db       *gorm.DB
	access   *AccessService
	activity *ActivityService
}

func NewCollaborationRequestService(db *gorm.DB) *CollaborationRequestService {
	return &CollaborationRequestService{
		db:       db,
		access:   NewAccessService(db),
		activity: NewActivityService(db),
	}
}

// RequestsOverview splits the caller's requests by direction.
type RequestsOverview struct {
	Sent     []models.CollaborationRequest `json:"sent"`
	Received []models.CollaborationRequest `json:"received"`
}

// ListMine returns all requests the user sent or received, newest first.
func (s *CollaborationRequestService) ListMine(userID uint) (*RequestsOverview, error) {
	var requests []models.CollaborationRequest
	err := s.db.Preload("Project").Preload("Sender").Preload("Recipient").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	overview := &RequestsOverview{
		Sent:     []models.CollaborationRequest{},
		Received: []models.CollaborationRequest{},
	}
	for _, req := range requests {
		if req.SenderID == userID {
			overview.Sent = append(overview.Sent, req)
		} else {
			overview.Received = append(overview.Received, req)
		}
	}
	return overview, nil
}

type SendRequestRequest struct {
	ProjectID   uint   `json:"projectId" binding:"required"`
	RecipientID uint   `json:"recipientId" binding:"required"`
	Message     string `json:"message"`
}

// Send creates a pending invitation. The sender must be owner or editor on
// the project; duplicates (existing collaborator or open request) conflict.
func (s *CollaborationRequestService) Send(senderID uint, req *SendRequestRequest) (*models.CollaborationRequest, error) {
	if _, err := s.access.Require(req.ProjectID, senderID, ActionInviteCollaborator); err != nil {
		return nil, err
	}

	var recipient models.User
	if err := s.db.First(&recipient, req.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient", ErrNotFound)
		}
		return nil, err
	}

	var collabCount int64
	s.db.Model(&models.Collaborator{}).
		Where("project_id = ? AND user_id = ?", req.ProjectID, req.RecipientID).
		Count(&collabCount)
	if collabCount > 0 {
		return nil, fmt.Errorf("%w: user is already a collaborator", ErrConflict)
	}

	var pendingCount int64
	s.db.Model(&models.CollaborationRequest{}).
		Where("project_id = ? AND recipient_id = ? AND status = ?",
			req.ProjectID, req.RecipientID, models.RequestPending).
		Count(&pendingCount)
	if pendingCount > 0 {
		return nil, fmt.Errorf("%w: invitation already sent to this user", ErrConflict)
	}

	request := models.CollaborationRequest{
		ProjectID:   req.ProjectID,
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Message:     req.Message,
		Status:      models.RequestPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Accept adds the recipient as an editor collaborator and closes the
// request. Only the recipient of a pending request may accept; anything
// else reads as not found, matching the conditional update.
func (s *CollaborationRequestService) Accept(requestID, userID uint) error {
	var request models.CollaborationRequest
	err := s.db.Where("id = ? AND recipient_id = ? AND status = ?",
		requestID, userID, models.RequestPending).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.CollaborationRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Updates(map[string]interface{}{
				"status":       models.RequestAccepted,
				"responded_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request not found or already processed", ErrNotFound)
		}

		collaborator := models.Collaborator{
			ProjectID: request.ProjectID,
			UserID:    userID,
			Role:      models.RoleEditor,
		}
		if err := tx.Create(&collaborator).Error; err != nil {
			return err
		}

		s.activity.Record(request.ProjectID, &userID, models.ActivityCollaboratorAdded,
			"joined via invitation",
			map[string]interface{}{"request_id": requestID})
		return nil
	})
}

// Reject closes a pending request without side effects.
func (s *CollaborationRequestService) Reject(requestID, userID uint) error {
	res := s.db.Model(&models.CollaborationRequest{}).
		Where("id = ? AND recipient_id = ? AND status = ?",
			requestID, userID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":       models.RequestRejected,
			"responded_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: request not found or already processed", ErrNotFound)
	}
	return nil
}

// Cancel deletes a pending request. Sender only.
func (s *CollaborationRequestService) Cancel(requestID, userID uint) error {
	res := s.db.Where("id = ? AND sender_id = ? AND status = ?",
		requestID, userID, models.RequestPending).
		Delete(&models.CollaborationRequest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: request not found or cannot be cancelled", ErrNotFound)
	}
	return nil
}

// ExpireStale rejects pending requests older than the expiry window and
// returns how many were closed.
func (s *CollaborationRequestService) ExpireStale() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -RequestExpiryDays)
	res := s.db.Model(&models.CollaborationRequest{}).
		Where("status = ? AND created_at < ?", models.RequestPending, cutoff).
		Updates(map[string]interface{}{
			"status":       models.RequestRejected,
			"responded_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

var requestSweeperQuit chan struct{}

// StartRequestSweeper expires stale invitations on a daily schedule.
func StartRequestSweeper(db *gorm.DB) {
	requestSweeperQuit = make(chan struct{})
	service := NewCollaborationRequestService(db)

	go func() {
		runRequestSweep(service)

		ticker := time.NewTicker(requestSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runRequestSweep(service)
			case <-requestSweeperQuit:
				return
			}
		}
	}()
}

// StopRequestSweeper stops the sweep goroutine.
func StopRequestSweeper() {
	if requestSweeperQuit != nil {
		close(requestSweeperQuit)
		requestSweeperQuit = nil
	}
}

func runRequestSweep(service *CollaborationRequestService) {
	expired, err := service.ExpireStale()
	if err != nil {
		logger.Errorf("[Requests] sweep failed: %v", err)
		return
	}
	if expired > 0 {
		logger.Infof("[Requests] expired %d invitations older than %d days", expired, RequestExpiryDays)
	}
}
