package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
)

const (
	minProjectNameLength = 3
	maxProjectNameLength = 100
	minPeopleCount       = 1
	maxPeopleCount       = 16
)

// Projects manages project records and applications to join them.
type Projects struct {
	db       database.Database
	notifier Notifier
	logger   zerolog.Logger
}

func NewProjects(db database.Database, notifier Notifier) *Projects {
	return &Projects{db: db, notifier: notifier, logger: serviceLogger("projects")}
}

type CreateProjectInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sector      string   `json:"sector"`
	PeopleCount int      `json:"people_count"`
	Skills      []string `json:"skills"`
	OtherSkill  string   `json:"other_skill"`
}

func (in *CreateProjectInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Sector = strings.TrimSpace(in.Sector)
	if runeLen(in.Name) < minProjectNameLength {
		return errs.NewInvalidFieldError("name", "Project name must be at least 3 characters long")
	}
	if runeLen(in.Name) > maxProjectNameLength {
		return errs.NewInvalidFieldError("name", "Project name must be at most 100 characters long")
	}
	if in.Description == "" {
		return errs.NewMissingRequiredFieldError("description", "Description is required")
	}
	if in.Sector == "" {
		return errs.NewMissingRequiredFieldError("sector", "Sector is required")
	}
	if runeLen(in.Sector) > 50 {
		return errs.NewInvalidFieldError("sector", "Sector must be at most 50 characters long")
	}
	if in.PeopleCount < minPeopleCount || in.PeopleCount > maxPeopleCount {
		return errs.NewInvalidFieldError("people_count", "People count must be between 1 and 16")
	}
	return nil
}

// Create stores a new project owned by creatorID.
func (s *Projects) Create(ctx context.Context, creatorID uint, in CreateProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	creator, err := s.db.UserRepo().FindByID(ctx, creatorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if creator == nil {
		return nil, errs.NewNotFoundError("User not found")
	}

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		Sector:      in.Sector,
		PeopleCount: in.PeopleCount,
		CreatorID:   &creator.ID,
	}
	if skills := models.JoinSkills(in.Skills, in.OtherSkill); skills != "" {
		project.Skills = &skills
	}

	if err := s.db.ProjectRepo().Add(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}
	s.logger.Info().Uint("projectID", project.ID).Uint("creatorID", creator.ID).Msg("Created project")
	return project, nil
}

func (s *Projects) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.db.ProjectRepo().FindAll(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

func (s *Projects) Get(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("Project not found")
	}
	return project, nil
}

// Delete removes a project and everything attached to it. Only the creator may.
func (s *Projects) Delete(ctx context.Context, requesterID, id uint) error {
	return s.db.Transaction(ctx, func(tx database.Database) error {
		project, err := tx.ProjectRepo().FindByID(ctx, id)
		if err != nil {
			return errs.NewDatabaseError("find", "project", err)
		}
		if project == nil {
			return errs.NewNotFoundError("Project not found")
		}
		if !project.IsCreator(requesterID) {
			return errs.NewForbiddenError("Only the project creator can delete this project")
		}
		if err := tx.ProjectRepo().Delete(ctx, project); err != nil {
			return errs.NewDatabaseError("delete", "project", err)
		}
		return nil
	})
}

type ApplyInput struct {
	Information string   `json:"information"`
	Skills      []string `json:"skills"`
	OtherSkill  string   `json:"other_skill"`
	ContactInfo string   `json:"contact_info"`
}

// Apply records an application. Repeat applications are accepted.
func (s *Projects) Apply(ctx context.Context, applicantID, projectID uint, in ApplyInput) (*models.Application, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	applicant, err := s.db.UserRepo().FindByID(ctx, applicantID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if applicant == nil {
		return nil, errs.NewNotFoundError("User not found")
	}

	application := &models.Application{
		ProjectID:   project.ID,
		ApplicantID: applicant.ID,
		Information: strings.TrimSpace(in.Information),
		Skills:      models.JoinSkills(in.Skills, in.OtherSkill),
		ContactInfo: strings.TrimSpace(in.ContactInfo),
	}
	if err := s.db.ApplicationRepo().Add(ctx, application); err != nil {
		return nil, errs.NewDatabaseError("create", "application", err)
	}

	s.notifyCreator(ctx, project, applicant, application)
	return application, nil
}

func (s *Projects) notifyCreator(ctx context.Context, project *models.Project, applicant *models.User, application *models.Application) {
	if project.CreatorID == nil {
		return
	}
	creator, err := s.db.UserRepo().FindByID(ctx, *project.CreatorID)
	if err != nil || creator == nil {
		s.logger.Warn().Err(err).Uint("projectID", project.ID).Msg("Could not load project creator for notification")
		return
	}
	notice := ApplicationNotice{
		To:          creator.Email,
		ProjectName: project.Name,
		Applicant:   applicant.Username,
		Skills:      application.Skills,
		ContactInfo: application.ContactInfo,
		Information: application.Information,
	}
	if err := s.notifier.NotifyApplication(ctx, notice); err != nil {
		s.logger.Error().Err(err).Uint("projectID", project.ID).Msg("Failed to send application notification")
	}
}

// ApplicantView is an application as shown to the project creator.
type ApplicantView struct {
	ID          uint      `json:"id"`
	ApplicantID uint      `json:"applicant_id"`
	Username    string    `json:"username"`
	Information string    `json:"information"`
	Skills      []string  `json:"skills"`
	ContactInfo string    `json:"contact_info"`
	Timestamp   time.Time `json:"timestamp"`
}

// Applicants lists applications for the creator. A missing project is a
// not-found error, any other requester is forbidden.
func (s *Projects) Applicants(ctx context.Context, projectID, requesterID uint) (*models.Project, []ApplicantView, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if !project.IsCreator(requesterID) {
		return nil, nil, errs.NewForbiddenError("You are not allowed to view applicants for this project")
	}

	applications, err := s.db.ApplicationRepo().FindByProject(ctx, project.ID)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find", "applications", err)
	}
	views := make([]ApplicantView, 0, len(applications))
	for _, a := range applications {
		views = append(views, ApplicantView{
			ID:          a.ID,
			ApplicantID: a.ApplicantID,
			Username:    a.Applicant.Username,
			Information: a.Information,
			Skills:      models.SplitSkills(&a.Skills),
			ContactInfo: a.ContactInfo,
			Timestamp:   a.CreatedAt,
		})
	}
	return project, views, nil
}
