package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects, newest first.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("id DESC").Find(&projects).Error
	return projects, err
}

// FindRecent returns the n most recently created projects.
func (r *ProjectRepo) FindRecent(ctx context.Context, n int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("id DESC").Limit(n).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepo) FindByCreator(ctx context.Context, userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Where("creator_id = ?", userID).Order("id DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns the project or nil.
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	return first[models.Project](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Delete removes the project together with its applications and workspace rows.
func (r *ProjectRepo) Delete(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Select(clause.Associations).Delete(project).Error
	})
}
