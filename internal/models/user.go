package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a platform account: a student, a mentor or an admin.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	Email     string         `gorm:"size:255" json:"email"`
	Name      string         `gorm:"size:100" json:"name"`
	Avatar    string         `gorm:"size:500" json:"avatar"`
	Skills    string         `gorm:"size:1000" json:"skills"`                // comma separated: go,react,ml
	Role      string         `gorm:"size:50;default:student" json:"role"`    // admin, student, mentor
	AuthType  string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStudent || role == RoleMentor
}

// PublicProfile is the projection of a user shown to other members,
// e.g. next to a pending application.
type PublicProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Skills   string `json:"skills"`
}

// Public returns the user's public profile projection.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Avatar:   u.Avatar,
		Skills:   u.Skills,
	}
}
