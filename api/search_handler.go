package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/services"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Search categories, also used as path segments.
const (
	searchUsers    = "users"
	searchProjects = "projects"
	searchSkills   = "skills"
)

type searchHandler struct {
	responder Responder
	logger    zerolog.Logger
	search    *services.Search
}

func newSearchHandler(search *services.Search) searchHandler {
	logger := log.With().Str("handlerName", "searchHandler").Logger()
	return searchHandler{
		responder: NewResponder(logger),
		logger:    logger,
		search:    search,
	}
}

// searchQuery is the query string of a search page.
type searchQuery struct {
	Q      string `url:"q"`
	Limit  int    `url:"limit,omitempty"`
	Offset int    `url:"offset,omitempty"`
}

func searchLink(base, category string, q searchQuery) string {
	v, err := query.Values(q)
	if err != nil {
		return ""
	}
	return base + "/" + category + "?" + v.Encode()
}

func searchBase(page bool) string {
	if page {
		return "/search"
	}
	return "/api/search"
}

func (h searchHandler) write(w http.ResponseWriter, r *http.Request, page bool, payload envelope) {
	if page {
		h.responder.WritePage(w, r, payload)
		return
	}
	h.responder.WriteSuccess(w, http.StatusOK, "", payload)
}

// all previews every category and links to the full result lists.
func (h searchHandler) all(page bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		preview := 0
		if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
			preview = min(n, maxSearchLimit)
		}
		res, err := h.search.All(r.Context(), q, preview)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		more := envelope{}
		base := searchBase(page)
		if res.Counts.Users > int64(len(res.Users)) {
			more[searchUsers] = searchLink(base, searchUsers, searchQuery{Q: q})
		}
		if res.Counts.Projects > int64(len(res.Projects)) {
			more[searchProjects] = searchLink(base, searchProjects, searchQuery{Q: q})
		}
		if res.Counts.Skills > int64(len(res.Skills)) {
			more[searchSkills] = searchLink(base, searchSkills, searchQuery{Q: q})
		}

		payload := envelope{
			"query":    res.Query,
			"users":    res.Users,
			"projects": res.Projects,
			"skills":   res.Skills,
			"counts":   res.Counts,
			"more":     more,
		}
		if res.Message != "" {
			payload["message"] = res.Message
		}
		h.write(w, r, page, payload)
	}
}

func pageFromRequest(r *http.Request) (database.Page, int) {
	limit := defaultSearchLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = min(n, maxSearchLimit)
	}
	offset := 0
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n > 0 {
		offset = n
	}
	return database.Page{Limit: &limit, Offset: offset}, limit
}

// category returns one page of a single category with a link to the next.
func (h searchHandler) category(category string, page bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		p, limit := pageFromRequest(r)

		var (
			results any
			count   int
			total   int64
			err     error
		)
		switch category {
		case searchUsers:
			var users []services.UserView
			users, total, err = h.search.Users(r.Context(), q, p)
			results, count = users, len(users)
		case searchProjects:
			var projects []models.ProjectView
			projects, total, err = h.search.Projects(r.Context(), q, p)
			results, count = projects, len(projects)
		default:
			var skills []models.Skill
			skills, total, err = h.search.Skills(r.Context(), q, p)
			results, count = skills, len(skills)
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		payload := envelope{
			"query":    q,
			"category": category,
			"results":  results,
			"total":    total,
			"limit":    limit,
			"offset":   p.Offset,
		}
		if next := int64(p.Offset + count); next < total {
			payload["next"] = searchLink(searchBase(page), category, searchQuery{Q: q, Limit: limit, Offset: int(next)})
		}
		if q == "" {
			payload["message"] = services.EmptyQueryMessage
		}
		h.write(w, r, page, payload)
	}
}
