package models

import (
	"strings"
	"time"
)

// OtherSkill is the sentinel option that enables the free-text skill field.
const OtherSkill = "Other"

// Project is a team looking for members.
type Project struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	Sector      string    `json:"sector" db:"sector" gorm:"type:varchar(50);not null;index"`
	PeopleCount int       `json:"people_count" db:"people_count" gorm:"not null"`
	Skills      *string   `json:"-" db:"skills" gorm:"type:text"`
	CreatorID   *uint     `json:"creator_id" db:"creator_id" gorm:"index"`
	Creator     *User     `json:"-" gorm:"foreignKey:CreatorID;references:ID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Applications []Application `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Tasks        []Task        `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Links        []ProjectLink `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Messages     []ChatMessage `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Notes        []ProjectNote `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

// ProjectView is the public JSON shape of a project.
type ProjectView struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sector      string   `json:"sector"`
	PeopleCount int      `json:"people_count"`
	Skills      []string `json:"skills"`
	CreatorID   *uint    `json:"creator_id"`
}

func (p Project) View() ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Sector:      p.Sector,
		PeopleCount: p.PeopleCount,
		Skills:      SplitSkills(p.Skills),
		CreatorID:   p.CreatorID,
	}
}

func ProjectViews(projects []Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, p.View())
	}
	return views
}

// IsCreator reports whether userID created the project.
func (p Project) IsCreator(userID uint) bool {
	return p.CreatorID != nil && *p.CreatorID == userID
}

// SplitSkills returns the non-empty trimmed tokens of a comma-joined skill string.
// The result is never nil.
func SplitSkills(s *string) []string {
	out := []string{}
	if s == nil {
		return out
	}
	for _, tok := range strings.Split(*s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// JoinSkills folds otherSkill into skills when the Other option is selected
// and returns the stored representation.
func JoinSkills(skills []string, otherSkill string) string {
	selected := make([]string, 0, len(skills)+1)
	hasOther := false
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s == OtherSkill {
			hasOther = true
		}
		selected = append(selected, s)
	}
	if other := strings.TrimSpace(otherSkill); hasOther && other != "" {
		selected = append(selected, other)
	}
	return strings.Join(selected, ", ")
}
