package models

import "time"

// Collaborator roles. Exactly one owner-role row exists per project (the
// creator, inserted at project creation).
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Collaborator is a (project, user, role) membership record.
type Collaborator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;default:viewer;not null" json:"role"` // owner, editor, viewer
	CreatedAt time.Time `json:"joined_at"`
}

func (Collaborator) TableName() string { return "collaborators" }
