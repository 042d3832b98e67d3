package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler    healthHandler
	authHandler      authHandler
	profileHandler   profileHandler
	projectHandler   projectHandler
	workspaceHandler workspaceHandler
	searchHandler    searchHandler
	dashboardHandler dashboardHandler
}
