package models

import "time"

// Activity actions recorded per project.
const (
	ActivityVersionSaved       = "version_saved"
	ActivityProposalSubmitted  = "proposal_submitted"
	ActivityProposalAccepted   = "proposal_accepted"
	ActivityProposalRejected   = "proposal_rejected"
	ActivityReverted           = "reverted"
	ActivityCollaboratorAdded  = "collaborator_added"
	ActivityCollaboratorRemove = "collaborator_removed"
	ActivityProjectUpdated     = "project_updated"
)

// ActivityLog records a project event for the history feed.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	UserID    *uint     `json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action    string    `gorm:"size:50;index;not null" json:"action"`
	Message   string    `gorm:"size:500" json:"message"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
