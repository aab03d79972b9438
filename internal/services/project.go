package services

import (
	"fmt"
	"strings"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db     *gorm.DB
	access *AccessService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db, access: NewAccessService(db)}
}

type ProjectListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Keyword  string `form:"keyword"`
	Tag      string `form:"tag"`
}

type ProjectListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Project `json:"items"`
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

type UpdateProjectRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Tags          string `json:"tags"`
	FinalMentorID *uint  `json:"final_mentor_id"`
}

// List returns paginated open projects for public browsing.
func (s *ProjectService) List(req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var projects []models.Project
	var total int64

	query := s.db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusOpen)

	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", kw, kw)
	}
	if req.Tag != "" {
		query = query.Where("tags LIKE ?", "%"+req.Tag+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Preload("Initiator").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    projects,
	}, nil
}

// ListMine returns every project the caller initiated, joined or mentors,
// regardless of status.
func (s *ProjectService) ListMine(callerID uint) ([]models.Project, error) {
	var memberProjectIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", callerID).
		Pluck("project_id", &memberProjectIDs).Error; err != nil {
		return nil, err
	}

	var projects []models.Project
	query := s.db.Where("initiator_id = ? OR final_mentor_id = ?", callerID, callerID)
	if len(memberProjectIDs) > 0 {
		query = s.db.Where("initiator_id = ? OR final_mentor_id = ? OR id IN ?", callerID, callerID, memberProjectIDs)
	}
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Create creates a new project owned by callerID.
func (s *ProjectService) Create(req *CreateProjectRequest, callerID uint) (*models.Project, error) {
	project := models.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Tags:        req.Tags,
		Status:      models.ProjectStatusOpen,
		InitiatorID: callerID,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}

	LogInfo("project", "create", fmt.Sprintf("project %d created", project.ID), &callerID, "", "", nil)
	return &project, nil
}

// Update updates project fields. Owner only; the initiator is immutable.
func (s *ProjectService) Update(id, callerID uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.loadOwned(id, callerID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Tags != "" {
		updates["tags"] = req.Tags
	}
	if req.FinalMentorID != nil {
		var mentor models.User
		if err := s.db.First(&mentor, *req.FinalMentorID).Error; err != nil {
			return nil, response.NewBadRequest("mentor not found")
		}
		updates["final_mentor_id"] = *req.FinalMentorID
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return project, nil
}

// UpdateStatus moves the project between open, in_progress and closed.
// Owner-driven in any direction; each transition is audit-logged.
func (s *ProjectService) UpdateStatus(id, callerID uint, status string) (*models.Project, error) {
	if !models.IsValidStatus(status) {
		return nil, response.NewBadRequest("invalid status, must be 'open', 'in_progress' or 'closed'")
	}

	project, err := s.loadOwned(id, callerID)
	if err != nil {
		return nil, err
	}

	if project.Status == status {
		return project, nil
	}

	old := project.Status
	if err := s.db.Model(project).Update("status", status).Error; err != nil {
		return nil, err
	}

	LogInfo("project", "status", fmt.Sprintf("project %d moved %s -> %s", project.ID, old, status), &callerID, "", "", nil)
	return project, nil
}

// Delete removes the project and, in the same transaction, its applications,
// members and file rows, so no orphan ever references a deleted project.
// It returns the stored names of the project's files so the caller can purge
// them from disk afterwards.
func (s *ProjectService) Delete(id, callerID uint) ([]string, error) {
	project, err := s.loadOwned(id, callerID)
	if err != nil {
		return nil, err
	}

	var storedNames []string
	if err := s.db.Model(&models.ProjectFile{}).
		Where("project_id = ?", project.ID).
		Pluck("stored_name", &storedNames).Error; err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectApplication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	if err != nil {
		return nil, err
	}

	LogWarning("project", "delete", fmt.Sprintf("project %d deleted with team and applications", project.ID), &callerID, "", "", nil)
	return storedNames, nil
}

// loadOwned fetches a project through the visibility gate and authorizes
// callerID as its owner. A caller without view rights sees the same NotFound
// as for a missing project.
func (s *ProjectService) loadOwned(id, callerID uint) (*models.Project, error) {
	project, _, role, err := s.access.ResolveProject(id, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner {
		return nil, response.NewForbidden("only the project owner may modify the project")
	}
	return project, nil
}
