package handlers

import (
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports the state of the platform's subsystems.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	var pendingApplications int64
	models.GetDB().Model(&models.ProjectApplication{}).
		Where("status = ?", models.ApplicationStatusPending).
		Count(&pendingApplications)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "campushub",
		"components": gin.H{
			"database":             dbStatus,
			"queue_mode":           queueMode,
			"pending_applications": pendingApplications,
		},
	})
}
