package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
)

const recentProjectsLimit = 10

// Dashboard assembles the landing page and project filtering.
type Dashboard struct {
	db     database.Database
	logger zerolog.Logger
}

func NewDashboard(db database.Database) *Dashboard {
	return &Dashboard{db: db, logger: serviceLogger("dashboard")}
}

type DashboardView struct {
	Recent     []models.ProjectView   `json:"recent_projects"`
	MyProjects []models.ProjectView   `json:"my_projects"`
	Options    database.FilterOptions `json:"filters"`
	Filter     database.ProjectFilter `json:"selected"`
	Filtered   []models.ProjectView   `json:"filtered_projects"`
}

func (s *Dashboard) FilterOptions(ctx context.Context) (database.FilterOptions, error) {
	opts, err := s.db.ProjectRepo().FilterOptions(ctx)
	if err != nil {
		return database.FilterOptions{}, errs.NewDatabaseError("load", "filter options", err)
	}
	return opts, nil
}

func (s *Dashboard) Filter(ctx context.Context, f database.ProjectFilter) ([]models.ProjectView, error) {
	projects, err := s.db.ProjectRepo().Filter(ctx, f)
	if err != nil {
		return nil, errs.NewDatabaseError("filter", "projects", err)
	}
	return models.ProjectViews(projects), nil
}

// Recent returns the newest projects.
func (s *Dashboard) Recent(ctx context.Context) ([]models.ProjectView, error) {
	projects, err := s.db.ProjectRepo().FindRecent(ctx, recentProjectsLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return models.ProjectViews(projects), nil
}

// View builds the dashboard for userID. A zero userID skips personal data.
func (s *Dashboard) View(ctx context.Context, userID uint, f database.ProjectFilter) (DashboardView, error) {
	recent, err := s.Recent(ctx)
	if err != nil {
		return DashboardView{}, err
	}
	view := DashboardView{Recent: recent, MyProjects: []models.ProjectView{}, Filter: f.Normalized()}

	if userID != 0 {
		mine, err := s.db.ProjectRepo().FindByCreator(ctx, userID)
		if err != nil {
			return DashboardView{}, errs.NewDatabaseError("find", "projects", err)
		}
		view.MyProjects = models.ProjectViews(mine)
	}

	if view.Options, err = s.FilterOptions(ctx); err != nil {
		return DashboardView{}, err
	}
	if !f.IsEmpty() {
		if view.Filtered, err = s.Filter(ctx, f); err != nil {
			return DashboardView{}, err
		}
	}
	return view, nil
}
