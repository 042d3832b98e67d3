package database

import (
	"context"
	"strings"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

// Page bounds a search. A nil Limit returns every match.
type Page struct {
	Limit  *int
	Offset int
}

// SearchRepo runs case-insensitive substring searches. LOWER(..) LIKE keeps
// the queries portable between postgres and sqlite.
type SearchRepo struct {
	db *gorm.DB
}

func NewSearchRepo(db *gorm.DB) *SearchRepo {
	return &SearchRepo{db}
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func paginate(q *gorm.DB, page Page) *gorm.DB {
	if page.Limit == nil {
		return q
	}
	return q.Limit(*page.Limit).Offset(page.Offset)
}

// Users matches username or bio, ordered by username.
func (r *SearchRepo) Users(ctx context.Context, query string, page Page) ([]models.User, int64, error) {
	pattern := likePattern(query)
	base := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) LIKE ? OR LOWER(COALESCE(bio, '')) LIKE ?", pattern, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := paginate(base.Session(&gorm.Session{}).Order("username ASC"), page).Find(&users).Error
	return users, total, err
}

// Projects matches name or description, ordered by name.
func (r *SearchRepo) Projects(ctx context.Context, query string, page Page) ([]models.Project, int64, error) {
	pattern := likePattern(query)
	base := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var projects []models.Project
	err := paginate(base.Session(&gorm.Session{}).Order("name ASC"), page).Find(&projects).Error
	return projects, total, err
}

// Skills matches skill names, ordered by name.
func (r *SearchRepo) Skills(ctx context.Context, query string, page Page) ([]models.Skill, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Skill{}).
		Where("LOWER(name) LIKE ?", likePattern(query))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var skills []models.Skill
	err := paginate(base.Session(&gorm.Session{}).Order("name ASC"), page).Find(&skills).Error
	return skills, total, err
}
