package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// access is the authentication a route requires.
type access int

const (
	public   access = iota
	apiUser         // answers 401 without a session
	formUser        // redirects to /login without a session
)

type route struct {
	method  string
	pattern string
	access  access
	handler http.HandlerFunc
}

// routeTable lists every route the application serves.
func routeTable(h *routeHandlers) []route {
	auth, profile, project := h.authHandler, h.profileHandler, h.projectHandler
	workspace, search, dashboard := h.workspaceHandler, h.searchHandler, h.dashboardHandler

	return []route{
		{http.MethodGet, "/health", public, h.healthHandler.health()},
		{http.MethodGet, "/health/ready", public, h.healthHandler.ready()},

		// Pages and forms
		{http.MethodGet, "/", public, dashboard.home()},
		{http.MethodGet, "/login", public, auth.loginPage()},
		{http.MethodPost, "/login", public, auth.loginForm()},
		{http.MethodGet, "/register", public, auth.registerPage()},
		{http.MethodPost, "/register", public, auth.registerForm()},
		{http.MethodGet, "/logout", public, auth.logout()},
		{http.MethodPost, "/logout", public, auth.logout()},

		{http.MethodGet, "/profile", formUser, profile.page()},
		{http.MethodPost, "/profile/update", formUser, profile.updateForm()},
		{http.MethodPost, "/profile/avatar", formUser, profile.avatarForm()},
		{http.MethodPost, "/profile/demos", formUser, profile.demoForm()},
		{http.MethodPost, "/profile/demos/delete/{id}", formUser, profile.demoDeleteForm()},
		{http.MethodPost, "/profile/skills/add", formUser, profile.skillAddForm()},
		{http.MethodPost, "/profile/skills/delete/{id}", formUser, profile.skillDeleteForm()},
		{http.MethodGet, "/u/{username}", public, profile.publicPage()},

		{http.MethodGet, "/projects", public, project.listPage()},
		{http.MethodGet, "/project/{id}", public, project.detailPage()},
		{http.MethodGet, "/create_project", formUser, project.createPage()},
		{http.MethodPost, "/create_project", formUser, project.createForm()},
		{http.MethodGet, "/apply/{id}", formUser, project.applyPage()},
		{http.MethodPost, "/apply/{id}", formUser, project.applyForm()},
		{http.MethodGet, "/project/{id}/applicants", formUser, project.applicantsPage()},
		{http.MethodPost, "/project/{id}/delete", formUser, project.deleteForm()},
		{http.MethodGet, "/project/{id}/gui", formUser, workspace.page()},
		{http.MethodPost, "/project/{id}/gui", formUser, workspace.actionForm()},

		{http.MethodGet, "/search/", public, search.all(true)},
		{http.MethodGet, "/search/all", public, search.all(true)},
		{http.MethodGet, "/search/users", public, search.category(searchUsers, true)},
		{http.MethodGet, "/search/projects", public, search.category(searchProjects, true)},
		{http.MethodGet, "/search/skills", public, search.category(searchSkills, true)},

		{http.MethodGet, "/dashboard", public, dashboard.page()},

		// JSON API
		{http.MethodPost, "/api/login", public, auth.apiLogin()},
		{http.MethodPost, "/api/register", public, auth.apiRegister()},
		{http.MethodPost, "/api/logout", public, auth.apiLogout()},

		{http.MethodGet, "/api/profile", apiUser, profile.apiGet()},
		{http.MethodPost, "/api/profile/update", apiUser, profile.apiUpdate()},
		{http.MethodPost, "/api/profile/avatar", apiUser, profile.apiAvatar()},
		{http.MethodGet, "/api/profile/demos", apiUser, profile.apiDemos()},
		{http.MethodPost, "/api/profile/demo", apiUser, profile.apiDemoUpload()},
		{http.MethodDelete, "/api/profile/demo/{id}", apiUser, profile.apiDemoDelete()},
		{http.MethodPost, "/api/profile/skills", apiUser, profile.apiSkillAdd()},
		{http.MethodDelete, "/api/profile/skills/{id}", apiUser, profile.apiSkillDelete()},
		{http.MethodGet, "/api/users/{username}", public, profile.apiPublic()},

		{http.MethodGet, "/api/projects", public, project.apiList()},
		{http.MethodGet, "/api/project/{id}", public, project.apiGet()},
		{http.MethodDelete, "/api/project/{id}", apiUser, project.apiDelete()},
		{http.MethodPost, "/api/create_project", apiUser, project.apiCreate()},
		{http.MethodPost, "/api/apply/{id}", apiUser, project.apiApply()},
		{http.MethodGet, "/api/project/{id}/applicants", apiUser, project.apiApplicants()},

		{http.MethodGet, "/api/project/{id}/workspace", apiUser, workspace.apiView()},
		{http.MethodPost, "/api/project/{id}/tasks", apiUser, workspace.apiAddTask()},
		{http.MethodPost, "/api/project/{id}/tasks/{taskID}/toggle", apiUser, workspace.apiToggleTask()},
		{http.MethodDelete, "/api/project/{id}/tasks/{taskID}", apiUser, workspace.apiDeleteTask()},
		{http.MethodPost, "/api/project/{id}/links", apiUser, workspace.apiAddLink()},
		{http.MethodDelete, "/api/project/{id}/links/{linkID}", apiUser, workspace.apiDeleteLink()},
		{http.MethodPost, "/api/project/{id}/messages", apiUser, workspace.apiPostMessage()},
		{http.MethodPut, "/api/project/{id}/note", apiUser, workspace.apiSaveNote()},

		{http.MethodGet, "/api/search/all", public, search.all(false)},
		{http.MethodGet, "/api/search/users", public, search.category(searchUsers, false)},
		{http.MethodGet, "/api/search/projects", public, search.category(searchProjects, false)},
		{http.MethodGet, "/api/search/skills", public, search.category(searchSkills, false)},

		{http.MethodGet, "/api/dashboard", public, dashboard.apiView()},
		{http.MethodGet, "/api/dashboard/filters", public, dashboard.apiFilters()},
	}
}

// setupRoutes registers the table on r, guarding each route by its access level.
func setupRoutes(r chi.Router, routes []route, authMiddleware authMiddleware) {
	for _, rt := range routes {
		var handler http.Handler = rt.handler
		switch rt.access {
		case apiUser:
			handler = authMiddleware.requireAPIUser(handler)
		case formUser:
			handler = authMiddleware.requireFormUser(handler)
		}
		r.Method(rt.method, rt.pattern, handler)
	}
}
