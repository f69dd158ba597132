package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a composition project. CurrentVersionID is the HEAD
// pointer: the version considered "current". It is nil until the first save
// and must always reference a version belonging to this project.
type Project struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PublicID         string         `gorm:"uniqueIndex;size:36;not null" json:"public_id"` // stable handle for discovery links
	OwnerID          uint           `gorm:"index;not null" json:"owner_id"`
	Owner            *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Name             string         `gorm:"size:200;not null" json:"name"`
	Description      string         `gorm:"size:2000" json:"description"`
	CurrentVersionID *uint          `json:"current_version_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
