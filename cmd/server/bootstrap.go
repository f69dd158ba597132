package main

import (
	"github.com/tmorell/chorus/internal/config"
	"github.com/tmorell/chorus/internal/handlers"
	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/internal/services"
	"github.com/tmorell/chorus/internal/utils"
	"github.com/tmorell/chorus/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cache *services.ProjectCache

	authHandler         *handlers.AuthHandler
	projectHandler      *handlers.ProjectHandler
	versionHandler      *handlers.VersionHandler
	proposalHandler     *handlers.ProposalHandler
	collaboratorHandler *handlers.CollaboratorHandler
	requestHandler      *handlers.CollaborationRequestHandler
	userHandler         *handlers.UserHandler
	activityHandler     *handlers.ActivityHandler
}

// bootstrap initializes all application dependencies: database, cache, sweepers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Optional Redis read-through cache; a no-op when disabled
	cache := services.NewProjectCache(&cfg.Cache)

	// Background sweeps: stale invitations and old activity entries
	services.StartRequestSweeper(db)
	services.StartActivityCleanup(db)

	return &appServices{
		cache:               cache,
		authHandler:         handlers.NewAuthHandler(db, cfg),
		projectHandler:      handlers.NewProjectHandler(db, cache),
		versionHandler:      handlers.NewVersionHandler(db, cache),
		proposalHandler:     handlers.NewProposalHandler(db, cache),
		collaboratorHandler: handlers.NewCollaboratorHandler(db),
		requestHandler:      handlers.NewCollaborationRequestHandler(db),
		userHandler:         handlers.NewUserHandler(db),
		activityHandler:     handlers.NewActivityHandler(db),
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	services.StopRequestSweeper()
	services.StopActivityCleanup()

	if err := s.cache.Close(); err != nil {
		logger.Warn().Err(err).Msg("cache close failed")
	}
	logger.Info().Msg("All background services stopped")
}
