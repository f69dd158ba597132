package services

import (
	"encoding/json"
	"time"

	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/pkg/logger"
	"gorm.io/gorm"
)

const (
	// ActivityRetentionDays is how long project activity is kept.
	ActivityRetentionDays = 180
	activitySweepInterval = 24 * time.Hour
)

// ActivityService records and lists per-project activity for the history
// feed. Recording is best-effort: failures are logged, never propagated.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record writes an activity entry. extra is JSON-encoded into the Extra
// column when non-nil.
func (s *ActivityService) Record(projectID uint, userID *uint, action, message string, extra interface{}) {
	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.ActivityLog{
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Message:   message,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Warn().Err(err).Uint("project_id", projectID).Str("action", action).Msg("activity record failed")
	}
}

type ActivityListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size" binding:"omitempty,max=100"`
}

type ActivityListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.ActivityLog `json:"items"`
}

// ListByProject returns paginated activity for a project, newest first.
func (s *ActivityService) ListByProject(projectID uint, req *ActivityListRequest) (*ActivityListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.ActivityLog{}).Where("project_id = ?", projectID)

	var total int64
	query.Count(&total)

	var items []models.ActivityLog
	offset := (req.Page - 1) * req.PageSize
	err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &ActivityListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Cleanup deletes activity older than the retention window and returns the
// number of rows removed.
func (s *ActivityService) Cleanup(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}

var activityCleanupQuit chan struct{}

// StartActivityCleanup runs a daily sweep of old activity entries.
func StartActivityCleanup(db *gorm.DB) {
	activityCleanupQuit = make(chan struct{})
	service := NewActivityService(db)

	go func() {
		runActivityCleanup(service)

		ticker := time.NewTicker(activitySweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runActivityCleanup(service)
			case <-activityCleanupQuit:
				return
			}
		}
	}()
}

// StopActivityCleanup stops the sweep goroutine.
func StopActivityCleanup() {
	if activityCleanupQuit != nil {
		close(activityCleanupQuit)
		activityCleanupQuit = nil
	}
}

func runActivityCleanup(service *ActivityService) {
	deleted, err := service.Cleanup(ActivityRetentionDays)
	if err != nil {
		logger.Errorf("[Activity] cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[Activity] removed %d entries older than %d days", deleted, ActivityRetentionDays)
	}
}
