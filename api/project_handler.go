package api

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.Projects
}

func newProjectHandler(projects *services.Projects) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

func projectPath(id uint, suffix string) string {
	return fmt.Sprintf("/project/%d%s", id, suffix)
}

// projectPayload is a project plus whether the viewer created it.
func projectPayload(r *http.Request, project *models.Project) envelope {
	userID, _ := ctxUserID(r.Context())
	return envelope{"project": project.View(), "is_creator": project.IsCreator(userID)}
}

func (h projectHandler) listPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, envelope{"projects": models.ProjectViews(projects)})
	}
}

func (h projectHandler) detailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.loadProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, projectPayload(r, project))
	}
}

func (h projectHandler) loadProject(r *http.Request) (*models.Project, error) {
	id, err := urlID(r, "id")
	if err != nil {
		return nil, err
	}
	return h.projects.Get(r.Context(), id)
}

func (h projectHandler) createPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WritePage(w, r, envelope{"page": "create_project", "other_skill": models.OtherSkill})
	}
}

func (h projectHandler) createForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, "/create_project")
			return
		}
		peopleCount, err := formInt(r, "people_count")
		if err != nil {
			h.responder.FlashError(w, r, err, "/create_project")
			return
		}
		project, err := h.projects.Create(r.Context(), userID, services.CreateProjectInput{
			Name:        formValue(r, "name"),
			Description: formValue(r, "description"),
			Sector:      formValue(r, "sector"),
			PeopleCount: peopleCount,
			Skills:      formValues(r, "skills"),
			OtherSkill:  formValue(r, "other_skill"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, "/create_project")
			return
		}
		h.responder.FlashSuccess(w, r, "Project created successfully!", projectPath(project.ID, ""))
	}
}

func (h projectHandler) applyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.loadProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		payload := projectPayload(r, project)
		payload["page"] = "apply"
		h.responder.WritePage(w, r, payload)
	}
}

func (h projectHandler) applyForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		back := fmt.Sprintf("/apply/%d", projectID)
		if err := parseForm(w, r, maxJSONBody); err != nil {
			h.responder.FlashError(w, r, err, back)
			return
		}
		_, err = h.projects.Apply(r.Context(), userID, projectID, services.ApplyInput{
			Information: formValue(r, "information"),
			Skills:      formValues(r, "skills"),
			OtherSkill:  formValue(r, "other_skill"),
			ContactInfo: formValue(r, "contact_info"),
		})
		if err != nil {
			h.responder.FlashError(w, r, err, back)
			return
		}
		h.responder.FlashSuccess(w, r, "Application submitted successfully!", projectPath(projectID, ""))
	}
}

func (h projectHandler) applicantsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.applicants(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, payload)
	}
}

func (h projectHandler) applicants(r *http.Request) (envelope, error) {
	userID, _ := ctxUserID(r.Context())
	projectID, err := urlID(r, "id")
	if err != nil {
		return nil, err
	}
	project, applicants, err := h.projects.Applicants(r.Context(), projectID, userID)
	if err != nil {
		return nil, err
	}
	return envelope{"project": project.View(), "applicants": applicants}, nil
}

func (h projectHandler) deleteForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projects.Delete(r.Context(), userID, projectID); err != nil {
			h.responder.FlashError(w, r, err, projectPath(projectID, ""))
			return
		}
		h.responder.FlashSuccess(w, r, "Project deleted", "/dashboard")
	}
}

func (h projectHandler) apiList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		views := models.ProjectViews(projects)
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"projects": views, "total": len(views)})
	}
}

func (h projectHandler) apiGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.loadProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", projectPayload(r, project))
	}
}

func (h projectHandler) apiCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		var in services.CreateProjectInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projects.Create(r.Context(), userID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Project created successfully", envelope{"project": project.View()})
	}
}

func (h projectHandler) apiApply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in services.ApplyInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		application, err := h.projects.Apply(r.Context(), userID, projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusCreated, "Application submitted successfully", envelope{"application": application})
	}
}

func (h projectHandler) apiApplicants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.applicants(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", payload)
	}
}

func (h projectHandler) apiDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())
		projectID, err := urlID(r, "id")
		if err == nil {
			err = h.projects.Delete(r.Context(), userID, projectID)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "Project deleted", nil)
	}
}
