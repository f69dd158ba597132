package main

import (
	"github.com/gin-gonic/gin"
	"github.com/tmorell/chorus/internal/middleware"
	"github.com/tmorell/chorus/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "chorus"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/public", svc.projectHandler.ListPublic)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Versions
			protected.GET("/projects/:id/versions", svc.versionHandler.List)
			protected.GET("/projects/:id/versions/:versionId", svc.versionHandler.GetByID)
			protected.POST("/projects/:id/versions", svc.versionHandler.Submit)
			protected.POST("/projects/:id/revert/:versionId", svc.versionHandler.Revert)

			// Proposals
			protected.GET("/projects/:id/proposals", svc.proposalHandler.List)
			protected.POST("/projects/:id/proposals", svc.proposalHandler.Create)
			protected.POST("/proposals/:proposalId/accept", svc.proposalHandler.Accept)
			protected.POST("/proposals/:proposalId/reject", svc.proposalHandler.Reject)

			// Collaborators
			protected.GET("/projects/:id/collaborators", svc.collaboratorHandler.List)
			protected.POST("/projects/:id/collaborators", svc.collaboratorHandler.Add)
			protected.DELETE("/projects/:id/collaborators/:userId", svc.collaboratorHandler.Remove)

			// Collaboration requests
			protected.GET("/collaboration-requests/my-requests", svc.requestHandler.ListMine)
			protected.POST("/collaboration-requests", svc.requestHandler.Send)
			protected.POST("/collaboration-requests/:requestId/accept", svc.requestHandler.Accept)
			protected.POST("/collaboration-requests/:requestId/reject", svc.requestHandler.Reject)
			protected.DELETE("/collaboration-requests/:requestId", svc.requestHandler.Cancel)

			// Users
			protected.GET("/users", svc.userHandler.List)
			protected.GET("/users/search", svc.userHandler.Search)
			protected.GET("/users/available/:projectId", svc.userHandler.Available)

			// Activity
			protected.GET("/projects/:id/activity", svc.activityHandler.List)
		}
	}
}
