package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
	"github.com/rpupo63/teamforge-backend/storage"
)

var (
	ImageMimeAllow = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	AudioMimeAllow = []string{
		"audio/mpeg", "audio/mp3", "audio/wav", "audio/x-wav", "audio/wave",
		"audio/ogg", "audio/webm", "audio/flac",
	}
)

func allowed(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Profile manages a user's own metadata, skills and media.
type Profile struct {
	db     database.Database
	store  storage.Storage
	logger zerolog.Logger
}

func NewProfile(db database.Database, store storage.Storage) *Profile {
	return &Profile{db: db, store: store, logger: serviceLogger("profile")}
}

// Get returns the full profile of userID, including private fields.
func (s *Profile) Get(ctx context.Context, userID uint) (ProfileView, error) {
	user, err := s.db.UserRepo().FindProfile(ctx, userID)
	if err != nil {
		return ProfileView{}, errs.NewDatabaseError("find", "profile", err)
	}
	if user == nil {
		return ProfileView{}, errs.NewNotFoundError("User not found")
	}
	return ProfileView{
		User:   userView(ctx, *user, s.store, s.logger),
		Skills: skillEntries(user.Skills),
		Demos:  demoViews(ctx, user.Demos, s.store, s.logger),
	}, nil
}

// GetPublic returns what other users may see of username.
func (s *Profile) GetPublic(ctx context.Context, username string) (ProfileView, error) {
	user, err := s.db.UserRepo().FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return ProfileView{}, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return ProfileView{}, errs.NewNotFoundError("User not found")
	}
	skills, err := s.db.SkillRepo().FindUserSkills(ctx, user.ID)
	if err != nil {
		return ProfileView{}, errs.NewDatabaseError("find", "skills", err)
	}
	demos, err := s.db.DemoRepo().FindByUser(ctx, user.ID, true)
	if err != nil {
		return ProfileView{}, errs.NewDatabaseError("find", "demos", err)
	}

	view := userView(ctx, *user, s.store, s.logger)
	view.Email = ""
	return ProfileView{
		User:   view,
		Skills: skillEntries(skills),
		Demos:  demoViews(ctx, demos, s.store, s.logger),
	}, nil
}

type UpdateProfileInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	ContactInfo string `json:"contact_info"`
	Bio         string `json:"bio"`
}

func (in *UpdateProfileInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.ContactInfo = strings.TrimSpace(in.ContactInfo)
	in.Bio = strings.TrimSpace(in.Bio)
	if in.Username == "" || in.Email == "" {
		return errs.NewMissingRequiredFieldError("", "Username and email are required")
	}
	return nil
}

// Update edits the profile. Username and email must not belong to someone else.
func (s *Profile) Update(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		users := tx.UserRepo()
		user, err := users.FindByID(ctx, userID)
		if err != nil {
			return errs.NewDatabaseError("find", "user", err)
		}
		if user == nil {
			return errs.NewNotFoundError("User not found")
		}

		if in.Username != user.Username {
			if taken, err := users.UsernameTaken(ctx, in.Username, user.ID); err != nil {
				return errs.NewDatabaseError("check", "username", err)
			} else if taken {
				return errs.NewConflictError("Username already exists")
			}
		}
		if in.Email != user.Email {
			if taken, err := users.EmailTaken(ctx, in.Email, user.ID); err != nil {
				return errs.NewDatabaseError("check", "email", err)
			} else if taken {
				return errs.NewConflictError("Email already exists")
			}
		}

		user.Username = in.Username
		user.Email = in.Email
		user.ContactInfo = in.ContactInfo
		if in.Bio == "" {
			user.Bio = nil
		} else {
			bio := in.Bio
			user.Bio = &bio
		}
		if err := users.UpdateProfile(ctx, user); err != nil {
			return errs.NewDatabaseError("update", "profile", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddSkillInput carries years as text because forms submit strings.
type AddSkillInput struct {
	Name  string `json:"name"`
	Level string `json:"level"`
	Years string `json:"years"`
}

func (in *AddSkillInput) Validate() (int, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Level = strings.TrimSpace(in.Level)
	if in.Name == "" {
		return 0, errs.NewMissingRequiredFieldError("name", "Skill name is required")
	}
	if runeLen(in.Name) > 100 {
		return 0, errs.NewInvalidFieldError("name", "Skill name must be at most 100 characters")
	}
	if !models.IsValidSkillLevel(in.Level) {
		return 0, errs.NewInvalidFieldError("level", "Invalid level")
	}
	years := 0
	if raw := strings.TrimSpace(in.Years); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < models.MinSkillYears || n > models.MaxSkillYears {
			return 0, errs.NewInvalidFieldError("years", "Invalid years value")
		}
		years = n
	}
	return years, nil
}

// AddSkill tags the user with a skill, creating the skill on first use.
func (s *Profile) AddSkill(ctx context.Context, userID uint, in AddSkillInput) (SkillEntry, error) {
	years, err := in.Validate()
	if err != nil {
		return SkillEntry{}, err
	}

	var entry SkillEntry
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		skill, err := tx.SkillRepo().FindOrCreate(ctx, in.Name)
		if err != nil {
			return errs.NewDatabaseError("create", "skill", err)
		}
		exists, err := tx.SkillRepo().HasUserSkill(ctx, userID, skill.ID)
		if err != nil {
			return errs.NewDatabaseError("check", "skill", err)
		}
		if exists {
			return errs.NewConflictError("Skill already exists")
		}
		us := &models.UserSkill{UserID: userID, SkillID: skill.ID, Level: in.Level, Years: years}
		if err := tx.SkillRepo().AddUserSkill(ctx, us); err != nil {
			if errs.IsUniqueViolation(err) {
				return errs.NewConflictError("Skill already exists")
			}
			return errs.NewDatabaseError("create", "user skill", err)
		}
		entry = SkillEntry{ID: us.ID, SkillID: skill.ID, Name: skill.Name, Level: us.Level, Years: us.Years}
		return nil
	})
	return entry, err
}

// DeleteSkill removes one of the user's own skills. Another user's entry
// is reported as missing.
func (s *Profile) DeleteSkill(ctx context.Context, userID, userSkillID uint) error {
	deleted, err := s.db.SkillRepo().DeleteUserSkill(ctx, userID, userSkillID)
	if err != nil {
		return errs.NewDatabaseError("delete", "skill", err)
	}
	if !deleted {
		return errs.NewNotFoundError("Skill not found or unauthorized")
	}
	return nil
}

// UploadAvatar stores an image and points the user's avatar at it.
func (s *Profile) UploadAvatar(ctx context.Context, userID uint, up Upload) (string, error) {
	mime := up.mimeType()
	if !allowed(ImageMimeAllow, mime) {
		return "", errs.NewUnsupportedMediaTypeError("avatar", mime, ImageMimeAllow, "Only JPG/PNG/WEBP/GIF allowed")
	}
	if s.store == nil {
		return "", errs.NewConfigError("storage")
	}

	key := storage.ObjectKey(storage.AvatarPrefix, userID, up.Filename)
	if err := s.store.Put(ctx, key, up.Body, up.Size, mime); err != nil {
		return "", errs.NewInternalErrorWithCause("upload avatar", err)
	}
	if err := s.db.UserRepo().SetAvatar(ctx, userID, key); err != nil {
		s.removeOrphan(ctx, key)
		return "", errs.NewDatabaseError("update", "avatar", err)
	}
	return presignKey(ctx, s.store, &key, s.logger), nil
}

type DemoInput struct {
	Title    string
	IsPublic bool
}

// UploadDemo stores an audio file and records it as a demo.
func (s *Profile) UploadDemo(ctx context.Context, userID uint, up Upload, in DemoInput) (DemoView, error) {
	mime := up.mimeType()
	if !allowed(AudioMimeAllow, mime) {
		return DemoView{}, errs.NewUnsupportedMediaTypeError("demo", mime, AudioMimeAllow, "Only audio files allowed")
	}
	if s.store == nil {
		return DemoView{}, errs.NewConfigError("storage")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSpace(up.Filename)
	}
	if title == "" {
		title = "Untitled"
	}
	title = truncate(title, maxTitleLength)

	key := storage.ObjectKey(storage.DemoPrefix, userID, up.Filename)
	if err := s.store.Put(ctx, key, up.Body, up.Size, mime); err != nil {
		return DemoView{}, errs.NewInternalErrorWithCause("upload demo", err)
	}

	demo := &models.Demo{UserID: userID, StorageKey: key, Title: title, MimeType: mime, IsPublic: in.IsPublic}
	if err := s.db.DemoRepo().Add(ctx, demo); err != nil {
		s.removeOrphan(ctx, key)
		return DemoView{}, errs.NewDatabaseError("create", "demo", err)
	}
	return demoViews(ctx, []models.Demo{*demo}, s.store, s.logger)[0], nil
}

// ListDemos returns the user's demos, most recent first.
func (s *Profile) ListDemos(ctx context.Context, userID uint) ([]DemoView, error) {
	demos, err := s.db.DemoRepo().FindByUser(ctx, userID, false)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "demos", err)
	}
	return demoViews(ctx, demos, s.store, s.logger), nil
}

// DeleteDemo removes the stored object and then the row. The row survives
// when the object store refuses.
func (s *Profile) DeleteDemo(ctx context.Context, userID, demoID uint) error {
	return s.db.Transaction(ctx, func(tx database.Database) error {
		demo, err := tx.DemoRepo().FindOwned(ctx, userID, demoID)
		if err != nil {
			return errs.NewDatabaseError("find", "demo", err)
		}
		if demo == nil {
			return errs.NewNotFoundError("Demo not found or unauthorized")
		}
		if s.store == nil {
			return errs.NewConfigError("storage")
		}
		if err := s.store.Delete(ctx, demo.StorageKey); err != nil {
			return errs.NewInternalErrorWithCause("delete demo object", err)
		}
		if err := tx.DemoRepo().Delete(ctx, demo.ID); err != nil {
			return errs.NewDatabaseError("delete", "demo", err)
		}
		return nil
	})
}

func (s *Profile) removeOrphan(ctx context.Context, key string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to remove orphaned object")
	}
}
