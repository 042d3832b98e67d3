package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/storage"
)

const (
	DefaultPreviewLimit = 5
	EmptyQueryMessage   = "Type something to search."
)

// Search finds users, projects and skills by substring.
type Search struct {
	db     database.Database
	store  storage.Storage
	logger zerolog.Logger
}

func NewSearch(db database.Database, store storage.Storage) *Search {
	return &Search{db: db, store: store, logger: serviceLogger("search")}
}

type SearchCounts struct {
	Users    int64 `json:"users"`
	Projects int64 `json:"projects"`
	Skills   int64 `json:"skills"`
}

type SearchResults struct {
	Query    string               `json:"query"`
	Users    []UserView           `json:"users"`
	Projects []models.ProjectView `json:"projects"`
	Skills   []models.Skill       `json:"skills"`
	Counts   SearchCounts         `json:"counts"`
	Message  string               `json:"message,omitempty"`
}

// All returns up to preview matches per category with total counts.
// A blank query returns empty results and a prompt.
func (s *Search) All(ctx context.Context, query string, preview int) (SearchResults, error) {
	query = strings.TrimSpace(query)
	res := SearchResults{
		Query:    query,
		Users:    []UserView{},
		Projects: []models.ProjectView{},
		Skills:   []models.Skill{},
	}
	if query == "" {
		res.Message = EmptyQueryMessage
		return res, nil
	}
	if preview <= 0 {
		preview = DefaultPreviewLimit
	}
	page := database.Page{Limit: &preview}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, total, err := s.Users(gctx, query, page)
		res.Users, res.Counts.Users = users, total
		return err
	})
	g.Go(func() error {
		projects, total, err := s.Projects(gctx, query, page)
		res.Projects, res.Counts.Projects = projects, total
		return err
	})
	g.Go(func() error {
		skills, total, err := s.Skills(gctx, query, page)
		res.Skills, res.Counts.Skills = skills, total
		return err
	})
	if err := g.Wait(); err != nil {
		return SearchResults{}, err
	}
	return res, nil
}

func (s *Search) Users(ctx context.Context, query string, page database.Page) ([]UserView, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []UserView{}, 0, nil
	}
	users, total, err := s.db.SearchRepo().Users(ctx, query, page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("search", "users", err)
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(ctx, u, s.store, s.logger))
	}
	return views, total, nil
}

func (s *Search) Projects(ctx context.Context, query string, page database.Page) ([]models.ProjectView, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ProjectView{}, 0, nil
	}
	projects, total, err := s.db.SearchRepo().Projects(ctx, query, page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("search", "projects", err)
	}
	return models.ProjectViews(projects), total, nil
}

func (s *Search) Skills(ctx context.Context, query string, page database.Page) ([]models.Skill, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Skill{}, 0, nil
	}
	skills, total, err := s.db.SearchRepo().Skills(ctx, query, page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("search", "skills", err)
	}
	if skills == nil {
		skills = []models.Skill{}
	}
	return skills, total, nil
}
