package api

import (
	"time"

	"github.com/rpupo63/teamforge-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc services.Services, db pinger, sessions sessionManager, maxUpload int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:    newHealthHandler(db, startupTime),
		authHandler:      newAuthHandler(svc.Identity, sessions),
		profileHandler:   newProfileHandler(svc.Profile, maxUpload),
		projectHandler:   newProjectHandler(svc.Projects),
		workspaceHandler: newWorkspaceHandler(svc.Workspace),
		searchHandler:    newSearchHandler(svc.Search),
		dashboardHandler: newDashboardHandler(svc.Dashboard, svc.Projects),
	}
}
