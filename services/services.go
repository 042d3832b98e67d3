package services

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/teamforge-backend/database"
	"github.com/rpupo63/teamforge-backend/storage"
)

// Services bundles every domain component behind the HTTP layer.
type Services struct {
	Identity  *Identity
	Profile   *Profile
	Projects  *Projects
	Workspace *Workspace
	Search    *Search
	Dashboard *Dashboard
}

func New(db database.Database, store storage.Storage, notifier Notifier) Services {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return Services{
		Identity:  NewIdentity(db),
		Profile:   NewProfile(db, store),
		Projects:  NewProjects(db, notifier),
		Workspace: NewWorkspace(db),
		Search:    NewSearch(db, store),
		Dashboard: NewDashboard(db),
	}
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// mimeType strips parameters such as "; charset=" and lowercases.
func (u Upload) mimeType() string {
	ct, _, _ := strings.Cut(u.ContentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Column limits, in characters.
const (
	maxTitleLength = 200
	maxURLLength   = 1000
)

// runeLen counts characters, matching how varchar limits are measured.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate keeps at most n characters of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func serviceLogger(name string) zerolog.Logger {
	return log.With().Str("service", name).Logger()
}

// presignKey resolves a storage key to a URL. Failures are logged and yield
// an empty URL so that pages still render.
func presignKey(ctx context.Context, store storage.Storage, key *string, logger zerolog.Logger) string {
	if store == nil || key == nil || *key == "" {
		return ""
	}
	url, err := store.PresignGet(ctx, *key)
	if err != nil {
		logger.Warn().Err(err).Str("key", *key).Msg("Failed to presign object")
		return ""
	}
	return url
}
