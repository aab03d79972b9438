package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
	"gorm.io/gorm"
)

// ApplicationService drives the join-request workflow: apply, accept, reject.
// The database is the only serialization point; decisions use a conditional
// update keyed on the pending status so two concurrent decisions cannot both
// succeed.
type ApplicationService struct {
	db     *gorm.DB
	access *AccessService
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db, access: NewAccessService(db)}
}

type ApplyRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

// Apply submits a join request from callerID to the project.
func (s *ApplicationService) Apply(projectID, callerID uint, message string) (*models.ProjectApplication, error) {
	if callerID == 0 {
		return nil, response.NewUnauthorized("login required to apply")
	}

	// Visibility gate applies here too: a project the caller cannot see
	// behaves as if it does not exist.
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}

	if role.IsOwner {
		return nil, response.NewInvalidState("owner cannot apply to own project")
	}
	if role.IsMember {
		return nil, response.NewInvalidState("already a member of this project")
	}

	var pendingCount int64
	if err := s.db.Model(&models.ProjectApplication{}).
		Where("project_id = ? AND applicant_id = ? AND status = ?",
			project.ID, callerID, models.ApplicationStatusPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, response.NewConflict("application already pending for this project")
	}

	app := models.ProjectApplication{
		ProjectID:   project.ID,
		ApplicantID: callerID,
		Message:     message,
		Status:      models.ApplicationStatusPending,
	}
	if err := s.db.Create(&app).Error; err != nil {
		return nil, err
	}

	LogInfo("application", "apply", fmt.Sprintf("user %d applied to project %d", callerID, project.ID), &callerID, "", "", nil)
	return &app, nil
}

// ListPending returns the project's pending applications with applicant
// profiles. Owner only.
func (s *ApplicationService) ListPending(projectID, callerID uint) ([]PendingApplication, error) {
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner {
		return nil, response.NewForbidden("only the project owner may review applications")
	}

	var apps []models.ProjectApplication
	if err := s.db.Where("project_id = ? AND status = ?", project.ID, models.ApplicationStatusPending).
		Preload("Applicant").
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	result := make([]PendingApplication, 0, len(apps))
	for _, app := range apps {
		item := PendingApplication{
			ID:        app.ID,
			Message:   app.Message,
			CreatedAt: app.CreatedAt,
		}
		if app.Applicant != nil {
			item.Applicant = app.Applicant.Public()
		}
		result = append(result, item)
	}
	return result, nil
}

// Accept transitions a pending application to accepted and adds the applicant
// to the member ledger. The status flip and the membership insert commit
// together or not at all.
func (s *ApplicationService) Accept(projectID, applicationID, callerID uint) (*models.ProjectApplication, error) {
	app, err := s.loadForDecision(projectID, applicationID, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProjectApplication{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationStatusPending).
			Updates(map[string]interface{}{
				"status":     models.ApplicationStatusAccepted,
				"decided_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return response.NewConflict("application already decided")
		}

		member := models.ProjectMember{
			ProjectID: app.ProjectID,
			UserID:    app.ApplicantID,
			Role:      "member",
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	app.Status = models.ApplicationStatusAccepted
	app.DecidedAt = &now
	LogInfo("application", "accept", fmt.Sprintf("application %d accepted on project %d", app.ID, app.ProjectID), &callerID, "", "", nil)
	return app, nil
}

// Reject transitions a pending application to rejected. No membership side
// effect.
func (s *ApplicationService) Reject(projectID, applicationID, callerID uint) (*models.ProjectApplication, error) {
	app, err := s.loadForDecision(projectID, applicationID, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := s.db.Model(&models.ProjectApplication{}).
		Where("id = ? AND status = ?", app.ID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ApplicationStatusRejected,
			"decided_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, response.NewConflict("application already decided")
	}

	app.Status = models.ApplicationStatusRejected
	app.DecidedAt = &now
	LogInfo("application", "reject", fmt.Sprintf("application %d rejected on project %d", app.ID, app.ProjectID), &callerID, "", "", nil)
	return app, nil
}

// loadForDecision authorizes the caller as owner and loads the application
// scoped to the project.
func (s *ApplicationService) loadForDecision(projectID, applicationID, callerID uint) (*models.ProjectApplication, error) {
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner {
		return nil, response.NewForbidden("only the project owner may decide applications")
	}

	var app models.ProjectApplication
	if err := s.db.Where("id = ? AND project_id = ?", applicationID, project.ID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, response.NewConflict("application already decided")
	}
	return &app, nil
}
