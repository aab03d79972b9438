package handlers

import (
	"strconv"

	"github.com/campushub/campushub/internal/middleware"
	"github.com/campushub/campushub/internal/services"
	"github.com/campushub/campushub/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AIHandler struct {
	accessService *services.AccessService
}

func NewAIHandler(db *gorm.DB) *AIHandler {
	return &AIHandler{
		accessService: services.NewAccessService(db),
	}
}

type describeRequest struct {
	Notes string `json:"notes" binding:"max=4000"`
}

// Describe queues description generation for the project, owner only. The
// generated text replaces the project description when the job completes.
// POST /api/projects/:id/describe
func (h *AIHandler) Describe(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	callerID := middleware.GetUserID(c)
	project, _, role, err := h.accessService.ResolveProject(uint(projectID), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !role.IsOwner {
		response.Forbidden(c, "only the project owner may generate a description")
		return
	}

	queue := services.GetTaskQueue()
	if queue == nil {
		response.ServerError(c, "task queue not initialized")
		return
	}

	task := &services.DescribeTask{
		ProjectID:   project.ID,
		RequestedBy: callerID,
		Title:       project.Title,
		Tags:        project.Tags,
		Notes:       req.Notes,
	}
	if err := queue.Enqueue(task); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	mode := "sync"
	if queue.IsAsync() {
		mode = "async"
	}
	response.Success(c, gin.H{
		"message": "description generation queued",
		"mode":    mode,
	})
}
