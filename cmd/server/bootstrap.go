package main

import (
	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/handlers"
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/internal/services"
	"github.com/campushub/campushub/internal/utils"
	"github.com/campushub/campushub/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg           *config.Config
	taskQueue     services.TaskQueue
	worker        *services.Worker
	digestService *services.DigestService
	logCleanup    *cron.Cron
	fileService   *services.FileService
	authHandler   *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())

	logCleanup := services.StartLogCleanupScheduler(models.GetDB(), cfg.Logs.RetentionDays)

	digestService := services.NewDigestService(models.GetDB(), &cfg.Digest)
	digestService.StartScheduler()

	// Task queue runs description generation: async via Redis when enabled,
	// otherwise in-process.
	aiService := services.NewAIService(models.GetDB(), &cfg.AI)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(aiService.ProcessDescribeTask)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(aiService.ProcessDescribeTask)
			worker.Start()
		}
	}

	fileService := services.NewFileService(models.GetDB(), &cfg.Storage)

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:           cfg,
		taskQueue:     taskQueue,
		worker:        worker,
		digestService: digestService,
		logCleanup:    logCleanup,
		fileService:   fileService,
		authHandler:   authHandler,
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	s.digestService.StopScheduler()
	if s.logCleanup != nil {
		s.logCleanup.Stop()
	}
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
