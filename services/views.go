package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/storage"
)

// UserView is the client representation of a user.
type UserView struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email,omitempty"`
	Bio         *string `json:"bio"`
	ContactInfo string  `json:"contact_info"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
}

func userView(ctx context.Context, u models.User, store storage.Storage, logger zerolog.Logger) UserView {
	return UserView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Bio:         u.Bio,
		ContactInfo: u.ContactInfo,
		AvatarURL:   presignKey(ctx, store, u.AvatarKey, logger),
	}
}

type SkillEntry struct {
	ID      uint   `json:"id"`
	SkillID uint   `json:"skill_id"`
	Name    string `json:"name"`
	Level   string `json:"level"`
	Years   int    `json:"years"`
}

func skillEntries(skills []models.UserSkill) []SkillEntry {
	out := make([]SkillEntry, 0, len(skills))
	for _, us := range skills {
		out = append(out, SkillEntry{ID: us.ID, SkillID: us.SkillID, Name: us.Skill.Name, Level: us.Level, Years: us.Years})
	}
	return out
}

type DemoView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Mime      string    `json:"mime"`
	IsPublic  bool      `json:"is_public"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

func demoViews(ctx context.Context, demos []models.Demo, store storage.Storage, logger zerolog.Logger) []DemoView {
	out := make([]DemoView, 0, len(demos))
	for _, d := range demos {
		out = append(out, DemoView{
			ID:        d.ID,
			Title:     d.Title,
			Mime:      d.MimeType,
			IsPublic:  d.IsPublic,
			UpdatedAt: d.UpdatedAt,
			URL:       presignKey(ctx, store, &d.StorageKey, logger),
		})
	}
	return out
}

// ProfileView is a user with skills and demos.
type ProfileView struct {
	User   UserView     `json:"user"`
	Skills []SkillEntry `json:"skills"`
	Demos  []DemoView   `json:"demos"`
}
