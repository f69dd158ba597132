package models

import (
	"encoding/json"
	"time"
)

// Version is an immutable snapshot of a project's tracks and metadata.
// Rows are never updated or deleted once written. VersionNumber is assigned
// per project as max+1; the composite unique index is the enforcement
// backstop against concurrent submissions picking the same number.
type Version struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProjectID       uint            `gorm:"uniqueIndex:idx_project_version_number;index;not null" json:"project_id"`
	ParentVersionID *uint           `json:"parent_version_id"`
	VersionNumber   int             `gorm:"uniqueIndex:idx_project_version_number;not null" json:"version_number"`
	MusicData       json.RawMessage `gorm:"type:text;not null" json:"music_data"`
	Metadata        json.RawMessage `gorm:"type:text" json:"metadata"` // tempo, time signature, save timestamp
	CreatedBy       uint            `gorm:"index;not null" json:"created_by"`
	Creator         *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Message         string          `gorm:"size:500" json:"message"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (Version) TableName() string { return "versions" }
