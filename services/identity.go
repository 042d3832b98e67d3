package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/errs"
	"github.com/rpupo63/teamforge-backend/models"
)

const minPasswordLength = 6

// Identity registers and authenticates users. Session handling lives in the
// HTTP layer.
type Identity struct {
	db     database.Database
	logger zerolog.Logger
}

func NewIdentity(db database.Database) *Identity {
	return &Identity{db: db, logger: serviceLogger("identity")}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return errs.NewMissingRequiredFieldError("", "All fields are required")
	}
	if runeLen(in.Username) > 150 {
		return errs.NewInvalidFieldError("username", "Username must be at most 150 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return errs.NewInvalidFieldError("email", "Invalid email address")
	}
	if runeLen(in.Password) < minPasswordLength {
		return errs.NewInvalidFieldError("password", "Password must be at least 6 characters long")
	}
	return nil
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return errs.NewMissingRequiredFieldError("", "Username and password required")
	}
	return nil
}

var errInvalidCredentials = errs.NewUnauthorizedError("Invalid username or password")

// Register creates a user. An existing username or email is a conflict.
func (s *Identity) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	users := s.db.UserRepo()
	if taken, err := users.UsernameTaken(ctx, in.Username, 0); err != nil {
		return nil, errs.NewDatabaseError("check", "username", err)
	} else if taken {
		return nil, errs.NewConflictError("User already exists")
	}
	if taken, err := users.EmailTaken(ctx, in.Email, 0); err != nil {
		return nil, errs.NewDatabaseError("check", "email", err)
	} else if taken {
		return nil, errs.NewConflictError("User already exists")
	}

	user := &models.User{Username: in.Username, Email: in.Email}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, errs.NewInternalErrorWithCause("hash password", err)
	}
	if err := users.Add(ctx, user); err != nil {
		if errs.IsUniqueViolation(err) {
			return nil, errs.NewConflictError("User already exists")
		}
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	s.logger.Info().Uint("userID", user.ID).Str("username", user.Username).Msg("Registered user")
	return user, nil
}

// Login checks credentials. Every mismatch yields the same error.
func (s *Identity) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.db.UserRepo().FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil || !user.CheckPassword(in.Password) {
		return nil, errInvalidCredentials
	}
	return user, nil
}

// User returns the user with id, or a not-found error.
func (s *Identity) User(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.db.UserRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFoundError("User not found")
	}
	return user, nil
}
