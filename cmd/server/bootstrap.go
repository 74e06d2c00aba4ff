package main

import (
	"github.com/robfig/cron/v3"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/handlers"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/internal/utils"
	"github.com/collabhub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue           services.TaskQueue
	worker              *services.Worker
	cleanupCron         *cron.Cron
	userHandler         *handlers.UserHandler
	projectHandler      *handlers.ProjectHandler
	requestHandler      *handlers.RequestHandler
	notificationHandler *handlers.NotificationHandler
	activityLogHandler  *handlers.ActivityLogHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Initialize activity logger and its retention cleanup
	services.InitActivityLogger(db)
	cleanupCron := services.StartCleanupScheduler(db, cfg.Log.RetentionDays)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	notificationService := services.NewNotificationService(db)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.Deliver)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notificationService.Deliver)
			worker.Start()
		}
	}

	return &appServices{
		taskQueue:           taskQueue,
		worker:              worker,
		cleanupCron:         cleanupCron,
		userHandler:         handlers.NewUserHandler(db, cfg),
		projectHandler:      handlers.NewProjectHandler(db),
		requestHandler:      handlers.NewRequestHandler(db, taskQueue),
		notificationHandler: handlers.NewNotificationHandler(db),
		activityLogHandler:  handlers.NewActivityLogHandler(db),
		healthHandler:       handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.cleanupCron != nil {
		s.cleanupCron.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if err := models.CloseDB(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
	logger.Info().Msg("Shutdown complete")
}
