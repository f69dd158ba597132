package services

import (
	"fmt"

	"github.com/tmorell/chorus/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

const userSearchLimit = 20

// ListOthers returns all users except the caller, for the invite picker.
func (s *UserService) ListOthers(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.Where("id != ?", userID).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches users by username or email substring. Queries under two
// characters are rejected to keep the scan bounded.
func (s *UserService) Search(userID uint, q string) ([]models.User, error) {
	if len(q) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", ErrValidation)
	}

	pattern := "%" + q + "%"
	var users []models.User
	err := s.db.Where("id != ? AND (username LIKE ? OR email LIKE ?)", userID, pattern, pattern).
		Order("username ASC").
		Limit(userSearchLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AvailableForProject returns users who are not yet collaborators on the
// project (and not the caller), candidates for an invitation.
func (s *UserService) AvailableForProject(userID, projectID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Where("id != ?", userID).
		Where("id NOT IN (?)",
			s.db.Model(&models.Collaborator{}).Select("user_id").Where("project_id = ?", projectID)).
		Where("id NOT IN (?)",
			s.db.Model(&models.Project{}).Select("owner_id").Where("id = ?", projectID)).
		Order("username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
