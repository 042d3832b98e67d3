package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Storage is an object store for user media. Objects are private and are
// only ever read through time-limited URLs.
type Storage interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL granting temporary read access to key.
	PresignGet(ctx context.Context, key string) (string, error)
}

// Key prefixes for each kind of media.
const (
	AvatarPrefix = "avatars"
	DemoPrefix   = "demos"
)

// CacheControl is set on every uploaded object.
const CacheControl = "private, max-age=31536000"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a safe ASCII basename.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// ObjectKey builds {prefix}/{userID}/{uuid}-{sanitized filename}.
func ObjectKey(prefix string, userID uint, filename string) string {
	safe := SecureFilename(filename)
	if safe == "" {
		safe = "upload"
	}
	return fmt.Sprintf("%s/%d/%s-%s", prefix, userID, uuid.NewString(), safe)
}
