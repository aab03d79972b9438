package services

import (
	"errors"
	"time"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
	"gorm.io/gorm"
)

// AccessService resolves who a caller is relative to a project and what they
// are allowed to see. Roles are derived per request from the project, its
// member list and the caller id; nothing here is cached or persisted.
type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// ViewerRole is the caller's derived capability set for one project.
type ViewerRole struct {
	IsOwner  bool `json:"is_owner"`
	IsMentor bool `json:"is_mentor"`
	IsMember bool `json:"is_member"`
}

// ResolveViewerRole computes the caller's role from raw identity comparison.
// callerID zero means anonymous.
func ResolveViewerRole(project *models.Project, members []models.ProjectMember, callerID uint) ViewerRole {
	var role ViewerRole
	if callerID == 0 {
		return role
	}
	role.IsOwner = callerID == project.InitiatorID
	role.IsMentor = project.FinalMentorID != nil && *project.FinalMentorID == callerID
	for _, m := range members {
		if m.UserID == callerID {
			role.IsMember = true
			break
		}
	}
	return role
}

// CanView reports whether the caller may read the project's full detail.
// Non-open projects are private to the team.
func CanView(project *models.Project, role ViewerRole) bool {
	return project.Status == models.ProjectStatusOpen || role.IsOwner || role.IsMember || role.IsMentor
}

// errProjectNotFound is returned both for a missing project and for one the
// caller may not see, so restricted projects are indistinguishable from
// nonexistent ones.
func errProjectNotFound() *response.AppError {
	return response.NewNotFound("project not found")
}

// ResolveProject loads a project with its members, computes the caller's role
// and enforces the visibility gate. Other services route their project reads
// through this so the hiding policy stays in one place.
func (s *AccessService) ResolveProject(projectID, callerID uint) (*models.Project, []models.ProjectMember, ViewerRole, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ViewerRole{}, errProjectNotFound()
		}
		return nil, nil, ViewerRole{}, err
	}

	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", project.ID).Preload("User").Find(&members).Error; err != nil {
		return nil, nil, ViewerRole{}, err
	}

	role := ResolveViewerRole(&project, members, callerID)
	if !CanView(&project, role) {
		return nil, nil, ViewerRole{}, errProjectNotFound()
	}
	return &project, members, role, nil
}

// PendingApplication is an owner-facing view of a pending join request.
type PendingApplication struct {
	ID        uint                 `json:"id"`
	Message   string               `json:"message"`
	CreatedAt time.Time            `json:"created_at"`
	Applicant models.PublicProfile `json:"applicant"`
}

// ProjectDetail is the full project view returned by the detail endpoint.
// PendingApplications is populated for the owner only; HasApplied and
// ApplicationStatus only for an authenticated caller who is neither owner
// nor member.
type ProjectDetail struct {
	Project             models.Project         `json:"project"`
	Members             []models.ProjectMember `json:"members"`
	Files               []models.ProjectFile   `json:"files"`
	Viewer              ViewerRole             `json:"viewer"`
	PendingApplications []PendingApplication   `json:"pending_applications,omitempty"`
	HasApplied          bool                   `json:"has_applied"`
	ApplicationStatus   string                 `json:"application_status,omitempty"`
}

// GetProjectDetail fetches the project with members and files, gated by
// visibility, plus the application view appropriate to the caller.
func (s *AccessService) GetProjectDetail(projectID, callerID uint) (*ProjectDetail, error) {
	project, members, role, err := s.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}

	var files []models.ProjectFile
	if err := s.db.Where("project_id = ?", project.ID).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}

	detail := &ProjectDetail{
		Project: *project,
		Members: members,
		Files:   files,
		Viewer:  role,
	}

	switch {
	case role.IsOwner:
		var pending []models.ProjectApplication
		if err := s.db.Where("project_id = ? AND status = ?", project.ID, models.ApplicationStatusPending).
			Preload("Applicant").
			Order("created_at ASC").
			Find(&pending).Error; err != nil {
			return nil, err
		}
		for _, app := range pending {
			item := PendingApplication{
				ID:        app.ID,
				Message:   app.Message,
				CreatedAt: app.CreatedAt,
			}
			if app.Applicant != nil {
				item.Applicant = app.Applicant.Public()
			}
			detail.PendingApplications = append(detail.PendingApplications, item)
		}

	case callerID != 0 && !role.IsMember:
		var app models.ProjectApplication
		err := s.db.Where("project_id = ? AND applicant_id = ?", project.ID, callerID).
			Order("created_at DESC").
			First(&app).Error
		if err == nil {
			detail.HasApplied = true
			detail.ApplicationStatus = app.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return detail, nil
}
