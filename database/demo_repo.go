package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

type DemoRepo struct {
	db *gorm.DB
}

func NewDemoRepo(db *gorm.DB) *DemoRepo {
	return &DemoRepo{db}
}

// FindByUser returns the user's demos, most recently updated first.
func (r *DemoRepo) FindByUser(ctx context.Context, userID uint, publicOnly bool) ([]models.Demo, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	var demos []models.Demo
	err := q.Order("updated_at DESC, id DESC").Find(&demos).Error
	return demos, err
}

// FindOwned returns the demo only when userID owns it.
func (r *DemoRepo) FindOwned(ctx context.Context, userID, demoID uint) (*models.Demo, error) {
	return first[models.Demo](r.db.WithContext(ctx).Where("id = ? AND user_id = ?", demoID, userID))
}

func (r *DemoRepo) Add(ctx context.Context, demo *models.Demo) error {
	return r.db.WithContext(ctx).Create(demo).Error
}

func (r *DemoRepo) Delete(ctx context.Context, demoID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Demo{}, demoID).Error
}
