package database

import (
	"context"

	"github.com/rpupo63/teamforge-backend/models"
	"gorm.io/gorm"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// FindOrCreate returns the skill called name, matching case-insensitively,
// creating it on first use.
func (r *SkillRepo) FindOrCreate(ctx context.Context, name string) (*models.Skill, error) {
	skill, err := first[models.Skill](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
	if err != nil || skill != nil {
		return skill, err
	}
	skill = &models.Skill{Name: name}
	if err := r.db.WithContext(ctx).Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (r *SkillRepo) HasUserSkill(ctx context.Context, userID, skillID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserSkill{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Count(&count).Error
	return count > 0, err
}

func (r *SkillRepo) AddUserSkill(ctx context.Context, us *models.UserSkill) error {
	return r.db.WithContext(ctx).Create(us).Error
}

// DeleteUserSkill removes the entry only when it belongs to userID.
func (r *SkillRepo) DeleteUserSkill(ctx context.Context, userID, userSkillID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", userSkillID, userID).
		Delete(&models.UserSkill{})
	return res.RowsAffected > 0, res.Error
}

func (r *SkillRepo) FindUserSkills(ctx context.Context, userID uint) ([]models.UserSkill, error) {
	var skills []models.UserSkill
	err := r.db.WithContext(ctx).Preload("Skill").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&skills).Error
	return skills, err
}
