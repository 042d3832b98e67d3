package models

// Skill levels accepted on a UserSkill.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

var SkillLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}

const (
	MinSkillYears = 0
	MaxSkillYears = 50
)

func IsValidSkillLevel(level string) bool {
	for _, l := range SkillLevels {
		if l == level {
			return true
		}
	}
	return false
}

type Skill struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

// UserSkill links a user to a skill with a self-assessed level.
type UserSkill struct {
	ID      uint   `json:"id" db:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex:idx_user_skill"`
	SkillID uint   `json:"skill_id" db:"skill_id" gorm:"not null;uniqueIndex:idx_user_skill"`
	Level   string `json:"level" db:"level" gorm:"type:varchar(20);not null"`
	Years   int    `json:"years" db:"years" gorm:"not null;default:0"`
	Skill   Skill  `json:"skill" gorm:"foreignKey:SkillID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
