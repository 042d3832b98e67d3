package api

import (
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/services"
)

type dashboardHandler struct {
	responder Responder
	logger    zerolog.Logger
	dashboard *services.Dashboard
	projects  *services.Projects
}

func newDashboardHandler(dashboard *services.Dashboard, projects *services.Projects) dashboardHandler {
	logger := log.With().Str("handlerName", "dashboardHandler").Logger()
	return dashboardHandler{
		responder: NewResponder(logger),
		logger:    logger,
		dashboard: dashboard,
		projects:  projects,
	}
}

// filterFromRequest reads repeated sectors, people_count and skills parameters.
func filterFromRequest(r *http.Request) database.ProjectFilter {
	q := r.URL.Query()
	return database.ProjectFilter{
		Sectors:      q["sectors"],
		PeopleCounts: q["people_count"],
		Skills:       q["skills"],
	}.Normalized()
}

func (h dashboardHandler) payload(r *http.Request) (envelope, error) {
	userID, _ := ctxUserID(r.Context())
	filter := filterFromRequest(r)
	view, err := h.dashboard.View(r.Context(), userID, filter)
	if err != nil {
		return nil, err
	}

	payload := envelope{"dashboard": view}
	if !filter.IsEmpty() {
		if v, err := query.Values(filter); err == nil {
			payload["filter_query"] = v.Encode()
		}
	}
	return payload, nil
}

func (h dashboardHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := ctxUserID(r.Context())
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, envelope{
			"page":          "home",
			"authenticated": ok,
			"projects":      models.ProjectViews(projects),
		})
	}
}

func (h dashboardHandler) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.payload(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WritePage(w, r, payload)
	}
}

func (h dashboardHandler) apiView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := h.payload(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", payload)
	}
}

func (h dashboardHandler) apiFilters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := h.dashboard.FilterOptions(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, http.StatusOK, "", envelope{"filters": opts, "people_count_buckets": []string{
			database.BucketSmall, database.BucketMedium, database.BucketLarge,
		}})
	}
}
