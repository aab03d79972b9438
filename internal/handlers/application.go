package handlers

import (
	"strconv"

	"github.com/campushub/campushub/internal/middleware"
	"github.com/campushub/campushub/internal/services"
	"github.com/campushub/campushub/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: services.NewApplicationService(db),
	}
}

// Apply submits a join request to the project
// POST /api/projects/:id/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.applicationService.Apply(uint(projectID), middleware.GetUserID(c), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app)
}

// ListPending returns the project's pending applications, owner only
// GET /api/projects/:id/applications
func (h *ApplicationHandler) ListPending(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	apps, err := h.applicationService.ListPending(uint(projectID), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, apps)
}

// Accept accepts a pending application and adds the applicant to the team
// POST /api/projects/:id/applications/:appId/accept
func (h *ApplicationHandler) Accept(c *gin.Context) {
	projectID, appID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Accept(projectID, appID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, app)
}

// Reject rejects a pending application
// POST /api/projects/:id/applications/:appId/reject
func (h *ApplicationHandler) Reject(c *gin.Context) {
	projectID, appID, ok := h.parseIDs(c)
	if !ok {
		return
	}

	app, err := h.applicationService.Reject(projectID, appID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, app)
}

func (h *ApplicationHandler) parseIDs(c *gin.Context) (uint, uint, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return 0, 0, false
	}

	appID, err := strconv.ParseUint(c.Param("appId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid application id")
		return 0, 0, false
	}

	return uint(projectID), uint(appID), true
}
