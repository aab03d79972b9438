package models

import (
	"time"

	"gorm.io/gorm"
)

// Project lifecycle statuses. Only open projects are visible to
// users outside the team.
const (
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusClosed     = "closed"
)

// Project represents a student-initiated collaboration project.
type Project struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Tags          string         `gorm:"size:1000" json:"tags"` // comma separated: web,ai,robotics
	Status        string         `gorm:"size:20;default:open;index" json:"status"`
	InitiatorID   uint           `gorm:"index;not null" json:"initiator_id"` // immutable after creation
	Initiator     *User          `gorm:"foreignKey:InitiatorID" json:"initiator,omitempty"`
	FinalMentorID *uint          `gorm:"index" json:"final_mentor_id"`
	FinalMentor   *User          `gorm:"foreignKey:FinalMentorID" json:"final_mentor,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// IsValidStatus reports whether s is a known project status.
func IsValidStatus(s string) bool {
	return s == ProjectStatusOpen || s == ProjectStatusInProgress || s == ProjectStatusClosed
}
