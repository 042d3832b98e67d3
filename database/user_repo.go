package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns the user or nil.
func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("username = ?", username))
}

// FindProfile loads the user with skills and demos, newest demo first.
func (r *UserRepo) FindProfile(ctx context.Context, id uint) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("user_skills.id ASC") }).
		Preload("Skills.Skill").
		Preload("Demos", func(db *gorm.DB) *gorm.DB { return db.Order("updated_at DESC, id DESC") }).
		Where("id = ?", id))
}

// UsernameTaken reports whether another user than exceptID owns username.
func (r *UserRepo) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another user than exceptID owns email.
func (r *UserRepo) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateProfile writes the editable profile columns of user.
func (r *UserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).
		Select("username", "email", "contact_info", "bio").
		Updates(user).Error
}

func (r *UserRepo) SetAvatar(ctx context.Context, userID uint, key string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_key", key).Error
}
