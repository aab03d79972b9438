package models

import (
	"time"

	"gorm.io/gorm"
)

// ProjectFile is the metadata row for a file uploaded to a project.
// The bytes live under the configured storage directory keyed by StoredName.
type ProjectFile struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ProjectID  uint           `gorm:"index;not null" json:"project_id"`
	Project    *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UploaderID uint           `gorm:"index;not null" json:"uploader_id"`
	Uploader   *User          `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	StoredName string         `gorm:"uniqueIndex;size:64;not null" json:"-"` // uuid-based name on disk
	Size       int64          `json:"size"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectFile) TableName() string { return "project_files" }
