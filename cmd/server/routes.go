package main

import (
	"github.com/campushub/campushub/internal/handlers"
	"github.com/campushub/campushub/internal/middleware"
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential and application endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	db := models.GetDB()

	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	projectHandler := handlers.NewProjectHandler(db, svc.fileService)
	applicationHandler := handlers.NewApplicationHandler(db)
	memberHandler := handlers.NewMemberHandler(db)
	fileHandler := handlers.NewFileHandler(svc.fileService)
	aiHandler := handlers.NewAIHandler(db)
	userHandler := handlers.NewUserHandler(db)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Middleware(), svc.authHandler.Register)
			auth.POST("/login", authLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Browse routes: anonymous callers see open projects only, token
		// holders see what their role allows.
		browse := api.Group("")
		browse.Use(middleware.AuthOptional())
		{
			browse.GET("/projects", projectHandler.List)
			browse.GET("/projects/:id", projectHandler.GetByID)
			browse.GET("/projects/:id/members", memberHandler.List)
			browse.GET("/projects/:id/files", fileHandler.List)
			browse.GET("/projects/:id/files/:fileId", fileHandler.Download)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			protected.PUT("/users/me", userHandler.UpdateProfile)
			protected.GET("/users/:id", userHandler.GetProfile)

			protected.GET("/projects/mine", projectHandler.ListMine)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Update)
			protected.PUT("/projects/:id/status", projectHandler.UpdateStatus)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			protected.POST("/projects/:id/applications", authLimiter.Middleware(), applicationHandler.Apply)
			protected.GET("/projects/:id/applications", applicationHandler.ListPending)
			protected.POST("/projects/:id/applications/:appId/accept", applicationHandler.Accept)
			protected.POST("/projects/:id/applications/:appId/reject", applicationHandler.Reject)

			protected.POST("/projects/:id/members", memberHandler.Add)
			protected.DELETE("/projects/:id/members/:memberId", memberHandler.Remove)

			protected.POST("/projects/:id/files", fileHandler.Upload)
			protected.DELETE("/projects/:id/files/:fileId", fileHandler.Delete)

			protected.POST("/projects/:id/describe", aiHandler.Describe)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			dashboardHandler := handlers.NewDashboardHandler(db)
			admin.GET("/dashboard", dashboardHandler.GetStats)

			systemLogHandler := handlers.NewSystemLogHandler(db)
			admin.GET("/logs", systemLogHandler.List)
			admin.GET("/logs/modules", systemLogHandler.GetModules)
		}
	}
}
