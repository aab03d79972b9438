package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/campushub/campushub/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectApplication{},
		&models.ProjectFile{},
		&models.RefreshToken{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Name:     username,
		Role:     role,
		AuthType: "local",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createProject(t *testing.T, db *gorm.DB, ownerID uint, status string) *models.Project {
	t.Helper()

	project := models.Project{
		Title:       "Test Project",
		Description: "a project",
		Status:      status,
		InitiatorID: ownerID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return &project
}

func addMember(t *testing.T, db *gorm.DB, projectID, userID uint) *models.ProjectMember {
	t.Helper()

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      "member",
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
	return &member
}
