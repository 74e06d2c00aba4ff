package main

import (
	"github.com/gin-gonic/gin"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api/v1")
	{
		// User routes
		user := api.Group("/user")
		{
			user.POST("/register", authLimiter.Middleware(), svc.userHandler.Register)
			user.POST("/login", authLimiter.Middleware(), svc.userHandler.Login)
			user.POST("/logout", svc.userHandler.Logout)
			user.GET("/logout", svc.userHandler.Logout)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Projects
			protected.POST("/need", svc.projectHandler.Create)
			protected.GET("/need/my-projects", svc.projectHandler.MyProjects)
			protected.GET("/need/joined-projects", svc.projectHandler.JoinedProjects)
			protected.GET("/need/matching", svc.projectHandler.Matching)

			// Join requests
			protected.POST("/need/join/:projectId", svc.requestHandler.Join)
			protected.PUT("/need/request/:requestId", svc.requestHandler.Resolve)
			protected.DELETE("/request/:requestId", svc.requestHandler.Cancel)
			protected.GET("/request/project/:projectId", svc.requestHandler.ProjectRequests)
			protected.GET("/request/my-requests", svc.requestHandler.MyRequests)
			protected.GET("/request/status/:projectId", svc.requestHandler.Status)

			// Notifications
			protected.GET("/notification", svc.notificationHandler.List)
			protected.PUT("/notification/read-all", svc.notificationHandler.MarkAllRead)
			protected.PUT("/notification/:id/read", svc.notificationHandler.MarkRead)
		}

		// Public project listing
		api.GET("/need", svc.projectHandler.List)

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/activity-logs", svc.activityLogHandler.List)
			admin.GET("/activity-logs/modules", svc.activityLogHandler.Modules)
		}
	}
}
