package models

import "time"

// Proposal statuses. Transitions are one-way and terminal:
// pending -> accepted, pending -> rejected.
const (
	ProposalPending  = "pending"
	ProposalAccepted = "accepted"
	ProposalRejected = "rejected"
)

// Proposal wraps a version submitted by a non-privileged contributor,
// awaiting owner/editor review. The referenced version is kept even when
// the proposal is rejected; it is merely disconnected from HEAD.
type Proposal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	VersionID   uint       `gorm:"index;not null" json:"version_id"`
	Version     *Version   `gorm:"foreignKey:VersionID" json:"version,omitempty"`
	ProposedBy  uint       `gorm:"index;not null" json:"proposed_by"`
	Proposer    *User      `gorm:"foreignKey:ProposedBy" json:"proposer,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:2000" json:"description"`
	Status      string     `gorm:"size:20;default:pending;index;not null" json:"status"`
	ReviewedBy  *uint      `json:"reviewed_by"`
	Reviewer    *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Proposal) TableName() string { return "proposals" }
