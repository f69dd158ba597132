package models

import "time"

// Collaboration request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// CollaborationRequest is an invitation from a project owner/editor to
// another user. Accepting adds the recipient as an editor collaborator.
type CollaborationRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	SenderID    uint       `gorm:"index;not null" json:"sender_id"`
	Sender      *User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID uint       `gorm:"index;not null" json:"recipient_id"`
	Recipient   *User      `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Message     string     `gorm:"size:1000" json:"message"`
	Status      string     `gorm:"size:20;default:pending;index;not null" json:"status"`
	RespondedAt *time.Time `json:"responded_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (CollaborationRequest) TableName() string { return "collaboration_requests" }
