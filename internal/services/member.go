package services

import (
	"errors"
	"fmt"

	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/response"
	"gorm.io/gorm"
)

// MemberService manages the membership ledger directly: listing the team and
// owner-driven additions and removals that bypass the application queue.
type MemberService struct {
	db     *gorm.DB
	access *AccessService
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db, access: NewAccessService(db)}
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"` // member, lead
}

// List returns the project's members, gated by project visibility.
func (s *MemberService) List(projectID, callerID uint) ([]models.ProjectMember, error) {
	_, members, _, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Add puts a user on the team directly, without an application. Owner only.
func (s *MemberService) Add(projectID, callerID uint, req *AddMemberRequest) (*models.ProjectMember, error) {
	project, members, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if !role.IsOwner {
		return nil, response.NewForbidden("only the project owner may add members")
	}
	if req.UserID == project.InitiatorID {
		return nil, response.NewInvalidState("owner is not listed as a member")
	}

	var user models.User
	if err := s.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBadRequest("user not found")
		}
		return nil, err
	}

	for _, m := range members {
		if m.UserID == req.UserID {
			return nil, response.NewConflict("user is already a member of this project")
		}
	}

	memberRole := req.Role
	if memberRole == "" {
		memberRole = "member"
	}
	if memberRole != "member" && memberRole != "lead" {
		return nil, response.NewBadRequest("invalid role, must be 'member' or 'lead'")
	}

	member := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    req.UserID,
		Role:      memberRole,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}

	s.db.Preload("User").First(&member, member.ID)
	LogInfo("member", "add", fmt.Sprintf("user %d added to project %d", req.UserID, project.ID), &callerID, "", "", nil)
	return &member, nil
}

// Remove takes a member off the team. Owner only.
func (s *MemberService) Remove(projectID, memberID, callerID uint) error {
	project, _, role, err := s.access.ResolveProject(projectID, callerID)
	if err != nil {
		return err
	}
	if !role.IsOwner {
		return response.NewForbidden("only the project owner may remove members")
	}

	var member models.ProjectMember
	if err := s.db.Where("id = ? AND project_id = ?", memberID, project.ID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("member not found")
		}
		return err
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return err
	}

	LogInfo("member", "remove", fmt.Sprintf("user %d removed from project %d", member.UserID, project.ID), &callerID, "", "", nil)
	return nil
}
