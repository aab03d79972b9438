package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses. pending is the only non-terminal state:
// once accepted or rejected a row never reverts.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// ProjectApplication is a join request from a student to a project.
// At most one pending application exists per (project, applicant).
type ProjectApplication struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"index:idx_app_project;not null" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	ApplicantID uint           `gorm:"index:idx_app_applicant;not null" json:"applicant_id"`
	Applicant   *User          `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Message     string         `gorm:"type:text" json:"message"`
	Status      string         `gorm:"size:20;default:pending;index" json:"status"`
	DecidedAt   *time.Time     `json:"decided_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectApplication) TableName() string { return "project_applications" }
