package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

type ApplicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{db}
}

func (r *ApplicationRepo) Add(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// FindByProject returns the project's applications with applicants, newest first.
func (r *ApplicationRepo) FindByProject(ctx context.Context, projectID uint) ([]models.Application, error) {
	var applications []models.Application
	err := r.db.WithContext(ctx).Preload("Applicant").
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepo) CountByProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
